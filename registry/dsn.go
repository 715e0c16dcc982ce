package registry

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	defaultBatchSize     = 500
	defaultRecordTimeout = 30 * time.Second
)

// Config is a configuration parsed from a DSN string.
// If a new Config is created instead of being parsed from a DSN string,
// the NewConfig function should be used, which sets default values.
type Config struct {
	mysql.Config

	batchSize     int
	recordTimeout time.Duration
}

// NewConfig creates a new Config and sets default values.
func NewConfig() *Config {
	var cfg = mysql.NewConfig()
	cfg.ParseTime = true

	return &Config{
		Config:        *cfg,
		batchSize:     defaultBatchSize,
		recordTimeout: defaultRecordTimeout,
	}
}

func (cfg *Config) Clone() *Config {
	var cp = cfg.Config.Clone()

	return &Config{
		Config:        *cp,
		batchSize:     cfg.batchSize,
		recordTimeout: cfg.recordTimeout,
	}
}

func (cfg *Config) BatchSize() int               { return cfg.batchSize }
func (cfg *Config) RecordTimeout() time.Duration { return cfg.recordTimeout }

// FormatDSN renders the configuration including the registry parameters.
func (cfg *Config) FormatDSN() string {
	var dsn = cfg.Config.FormatDSN()

	var extra = url.Values{}
	if cfg.batchSize > 0 {
		extra.Set("batchSize", strconv.Itoa(cfg.batchSize))
	}
	if cfg.recordTimeout > 0 {
		extra.Set("recordTimeout", cfg.recordTimeout.String())
	}
	if len(extra) == 0 {
		return dsn
	}

	// params follow the last slash, which separates the database name
	var sep = "?"
	if strings.Contains(dsn[strings.LastIndexByte(dsn, '/')+1:], "?") {
		sep = "&"
	}
	return dsn + sep + extra.Encode()
}

// Redacted is FormatDSN with the password masked, for logs.
func (cfg *Config) Redacted() string {
	var cp = cfg.Clone()
	if cp.Passwd != "" {
		cp.Passwd = "xxxxx"
	}
	return cp.FormatDSN()
}

// DriverDSN renders the DSN handed to the mysql driver, without the registry
// parameters, which the server would reject as unknown variables.
func (cfg *Config) DriverDSN() string {
	return cfg.Config.FormatDSN()
}

// ParseDSN parses the DSN string to a Config. Besides the go-sql-driver/mysql
// parameters it understands batchSize (points per insert statement) and
// recordTimeout (bound on one Record call).
func ParseDSN(dsn string) (*Config, error) {
	var mysqlCfg, err = mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	mysqlCfg.ParseTime = true

	var cfg = Config{
		Config: *mysqlCfg,
	}

	for name, value := range mysqlCfg.Params {
		switch name {
		case "batchSize":
			cfg.batchSize, err = strconv.Atoi(value)
			if err != nil {
				return nil, err
			}
			delete(cfg.Params, name)
		case "recordTimeout":
			cfg.recordTimeout, err = time.ParseDuration(value)
			if err != nil {
				return nil, err
			}
			delete(cfg.Params, name)
		}
	}
	if cfg.batchSize <= 0 {
		cfg.batchSize = defaultBatchSize
	}

	if cfg.recordTimeout <= 0 {
		cfg.recordTimeout = defaultRecordTimeout
	}

	return &cfg, nil
}
