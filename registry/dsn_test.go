package registry

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	cfg, err := ParseDSN("user:pw@tcp(db:3306)/echem?batchSize=64&recordTimeout=5s&charset=utf8mb4")
	require.NoError(t, err)

	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "echem", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, 64, cfg.BatchSize())
	assert.Equal(t, 5*time.Second, cfg.RecordTimeout())

	assert.NotContains(t, cfg.Params, "batchSize")
	assert.NotContains(t, cfg.Params, "recordTimeout")
	assert.Equal(t, "utf8mb4", cfg.Params["charset"])
}

func TestParseDSNDefaults(t *testing.T) {
	cfg, err := ParseDSN("user@tcp(localhost:3306)/echem")
	require.NoError(t, err)
	assert.Equal(t, defaultBatchSize, cfg.BatchSize())
	assert.Equal(t, defaultRecordTimeout, cfg.RecordTimeout())

	cfg, err = ParseDSN("user@tcp(localhost:3306)/echem?batchSize=0")
	require.NoError(t, err)
	assert.Equal(t, defaultBatchSize, cfg.BatchSize())
}

func TestParseDSNInvalid(t *testing.T) {
	for _, dsn := range []string{
		"user@tcp(localhost:3306)/echem?batchSize=many",
		"user@tcp(localhost:3306)/echem?recordTimeout=soon",
		"not a dsn",
	} {
		_, err := ParseDSN(dsn)
		assert.Error(t, err, dsn)
	}
}

func TestFormatDSN(t *testing.T) {
	cfg, err := ParseDSN("user:pw@tcp(db:3306)/echem?batchSize=64&recordTimeout=5s")
	require.NoError(t, err)

	var full = cfg.FormatDSN()
	assert.Contains(t, full, "batchSize=64")
	assert.Contains(t, full, "recordTimeout=5s")
	assert.Equal(t, 1, strings.Count(full, "?"))

	var driver = cfg.DriverDSN()
	assert.NotContains(t, driver, "batchSize")
	assert.NotContains(t, driver, "recordTimeout")
	assert.Contains(t, driver, "parseTime=true")

	again, err := ParseDSN(full)
	require.NoError(t, err)
	assert.Equal(t, cfg.BatchSize(), again.BatchSize())
	assert.Equal(t, cfg.RecordTimeout(), again.RecordTimeout())
}

func TestNewConfigClone(t *testing.T) {
	var cfg = NewConfig()
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, defaultBatchSize, cfg.BatchSize())

	cfg.DBName = "echem"
	var cp = cfg.Clone()
	cp.DBName = "other"
	assert.Equal(t, "echem", cfg.DBName)
	assert.Equal(t, cfg.RecordTimeout(), cp.RecordTimeout())
}

func TestRedacted(t *testing.T) {
	cfg, err := ParseDSN("user:s3cret@tcp(db:3306)/echem?recordTimeout=1m0s")
	require.NoError(t, err)

	var dsn = cfg.Redacted()
	assert.NotContains(t, dsn, "s3cret")
	assert.Contains(t, dsn, "user:xxxxx@tcp(db:3306)/echem?")
	assert.Contains(t, dsn, "recordTimeout=1m0s")
	assert.Equal(t, "s3cret", cfg.Passwd, "the original config keeps its password")
}

func TestFormatDSNAppendsToDriverParams(t *testing.T) {
	var cfg = NewConfig()
	cfg.Net, cfg.Addr, cfg.DBName = "tcp", "db:3306", "echem"

	var dsn = cfg.FormatDSN()
	assert.Equal(t, 1, strings.Count(dsn, "?"))
	assert.True(t, strings.HasSuffix(dsn, "/echem?parseTime=true&batchSize=500&recordTimeout=30s"), dsn)

	cfg.ParseTime = false
	dsn = cfg.FormatDSN()
	assert.True(t, strings.HasSuffix(dsn, "/echem?batchSize=500&recordTimeout=30s"), dsn)
}
