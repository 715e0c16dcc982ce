package registry

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/plot/plotter"

	"github.com/dati-mipt/echemplot"
)

// nolint:gochecknoglobals
var dockerPool *dockertest.Pool // nil when docker is unavailable
// nolint:gochecknoglobals
var sqlConfig *mysql.Config // the mysql container config

func TestMain(m *testing.M) {
	_ = mysql.SetLogger(log.New(io.Discard, "", 0)) // silence mysql logger

	var container *dockertest.Resource
	if pool, err := dockertest.NewPool(""); err != nil {
		log.Printf("docker unavailable, skipping registry integration tests: %s", err)
	} else if err = pool.Client.Ping(); err != nil {
		log.Printf("docker unavailable, skipping registry integration tests: %s", err)
	} else {
		pool.MaxWait = time.Minute * 2
		container, err = pool.RunWithOptions(&dockertest.RunOptions{
			Repository: "mysql",
			Tag:        "5.7",
			Env:        []string{"MYSQL_ROOT_PASSWORD=secret", "MYSQL_DATABASE=echem"},
		}, func(hostcfg *docker.HostConfig) {
			hostcfg.Memory = 1024 * 1024 * 1024 * 1 //1Gb
		})
		if err != nil {
			log.Fatalf("could not start mysql container: %s", err)
		}
		dockerPool = pool
		sqlConfig = &mysql.Config{
			User:                 "root",
			Passwd:               "secret",
			Net:                  "tcp",
			Addr:                 fmt.Sprintf("localhost:%s", container.GetPort("3306/tcp")),
			DBName:               "echem",
			AllowNativePasswords: true,
		}
		if err = dockerPool.Retry(func() error {
			db, err := sql.Open(driverName, sqlConfig.FormatDSN())
			if err != nil {
				return err
			}
			defer db.Close()
			return db.Ping()
		}); err != nil {
			log.Fatal(err)
		}
	}

	code := m.Run()

	// You can't defer this because os.Exit ignores defer
	if container != nil {
		if err := dockerPool.Purge(container); err != nil {
			log.Fatalf("Could not purge resource: %s", err)
		}
	}
	os.Exit(code)
}

func openRegistry(t *testing.T, params string) *Registry {
	t.Helper()
	if dockerPool == nil {
		t.Skip("docker is not available")
	}
	var dsn = sqlConfig.FormatDSN()
	if params != "" {
		dsn += "?" + params
	}
	reg, err := Open(context.Background(), dsn, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })
	return reg
}

func sampleFigure(name string, points int) *echemplot.Figure {
	var fig = echemplot.NewFigure(name, "Nyquist Plots", 1, 2, 4, 2)
	var xys = make(plotter.XYs, points)
	for i := range xys {
		xys[i] = plotter.XY{X: float64(i), Y: float64(i) / 2}
	}
	fig.Panel(0, 0).Title = "pH 1, OCP"
	fig.Panel(0, 0).Add(echemplot.Series{Label: "KReO4", XYs: xys})
	fig.Panel(0, 1).Title = "pH 1, CAP"
	fig.Panel(0, 1).Add(echemplot.Series{Label: "Cu", XYs: xys[:3]})
	return fig
}

func TestRecord(t *testing.T) {
	var reg = openRegistry(t, "batchSize=7")
	var ctx = context.Background()
	var name = fmt.Sprintf("record-%d.png", time.Now().UnixNano())

	require.NoError(t, reg.Record(ctx, sampleFigure(name, 20)))

	runs, err := reg.Runs(ctx, name)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "Nyquist Plots", runs[0].Title)
	assert.Equal(t, 2, runs[0].Series)
	assert.WithinDuration(t, time.Now(), runs[0].CreatedAt, time.Minute)

	series, err := reg.Series(ctx, runs[0].ID)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "KReO4", series[0].Label)
	assert.Equal(t, 0, series[0].Panel)
	assert.Equal(t, 20, series[0].Points)
	assert.Equal(t, "pH 1, CAP", series[1].PanelTitle)

	points, err := reg.Points(ctx, series[0].ID)
	require.NoError(t, err)
	require.Len(t, points, 20, "points span several batches")
	assert.Equal(t, [2]float64{19, 9.5}, points[19])
}

func TestRunsNewestFirst(t *testing.T) {
	var reg = openRegistry(t, "")
	var ctx = context.Background()
	var name = fmt.Sprintf("runs-%d.png", time.Now().UnixNano())

	var clock = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }
	require.NoError(t, reg.Record(ctx, sampleFigure(name, 2)))
	clock = clock.Add(time.Hour)
	require.NoError(t, reg.Record(ctx, echemplot.NewFigure(name, "empty", 1, 1, 1, 1)))

	runs, err := reg.Runs(ctx, name)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "empty", runs[0].Title)
	assert.Equal(t, 0, runs[0].Series)
	assert.Equal(t, 2, runs[1].Series)
}

func TestRecordCancelled(t *testing.T) {
	var reg = openRegistry(t, "")
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	assert.Error(t, reg.Record(ctx, sampleFigure("cancelled.png", 2)))
}

func TestOpenBadDSN(t *testing.T) {
	_, err := Open(context.Background(), "user@tcp(localhost:3306)/echem?batchSize=x", nil)
	assert.Error(t, err)
}
