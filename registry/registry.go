// Package registry keeps a MySQL record of every rendered figure: one run row
// per render, one row per plotted series and the plotted points themselves.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/dati-mipt/echemplot"
)

const driverName = "mysql"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS echem_runs (
		id CHAR(36) NOT NULL PRIMARY KEY,
		figure VARCHAR(255) NOT NULL,
		title VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_runs_figure (figure, created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS echem_series (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		run_id CHAR(36) NOT NULL,
		panel INT NOT NULL,
		panel_title VARCHAR(255) NOT NULL,
		label VARCHAR(255) NOT NULL,
		points INT NOT NULL,
		INDEX idx_series_run (run_id)
	)`,
	`CREATE TABLE IF NOT EXISTS echem_points (
		series_id BIGINT NOT NULL,
		seq INT NOT NULL,
		x DOUBLE NOT NULL,
		y DOUBLE NOT NULL,
		PRIMARY KEY (series_id, seq)
	)`,
}

type Run struct {
	ID        string    `db:"id"`
	Figure    string    `db:"figure"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	Series    int       `db:"series"`
}

type StoredSeries struct {
	ID         int64  `db:"id"`
	RunID      string `db:"run_id"`
	Panel      int    `db:"panel"`
	PanelTitle string `db:"panel_title"`
	Label      string `db:"label"`
	Points     int    `db:"points"`
}

type point struct {
	SeriesID int64   `db:"series_id"`
	Seq      int     `db:"seq"`
	X        float64 `db:"x"`
	Y        float64 `db:"y"`
}

// Registry implements echemplot.Recorder.
type Registry struct {
	db     *sqlx.DB
	cfg    *Config
	logger *zap.Logger
	now    func() time.Time
}

var _ echemplot.Recorder = (*Registry)(nil)

// Open connects to the DSN and creates the tables when missing.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Registry, error) {
	var cfg, err = ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("registry: parse dsn: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sqlx.Open(driverName, cfg.DriverDSN())
	if err != nil {
		return nil, fmt.Errorf("registry: open: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("registry: ping: %w", err)
	}
	for _, stmt := range schema {
		if _, err = db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("registry: create schema: %w", err)
		}
	}
	logger.Info("registry connected", zap.String("dsn", cfg.Redacted()))
	return &Registry{db: db, cfg: cfg, logger: logger, now: time.Now}, nil
}

func (r *Registry) Close() error {
	return r.db.Close()
}

// Record stores fig as a new run in a single transaction.
func (r *Registry) Record(ctx context.Context, fig *echemplot.Figure) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.RecordTimeout())
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("registry: begin: %w", err)
	}
	var run = Run{
		ID:        uuid.NewString(),
		Figure:    fig.Name,
		Title:     fig.Title,
		CreatedAt: r.now().UTC(),
	}
	if err = r.insert(ctx, tx, run, fig); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("registry: commit: %w", err)
	}
	r.logger.Info("run recorded", zap.String("run", run.ID), zap.String("figure", fig.Name),
		zap.Int("series", fig.SeriesCount()))
	return nil
}

func (r *Registry) insert(ctx context.Context, tx *sqlx.Tx, run Run, fig *echemplot.Figure) error {
	_, err := tx.NamedExecContext(ctx,
		`INSERT INTO echem_runs (id, figure, title, created_at) VALUES (:id, :figure, :title, :created_at)`, run)
	if err != nil {
		return fmt.Errorf("registry: insert run: %w", err)
	}

	for p, panel := range fig.Panels {
		for _, s := range panel.Series {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO echem_series (run_id, panel, panel_title, label, points) VALUES (?, ?, ?, ?, ?)`,
				run.ID, p, panel.Title, s.Label, len(s.XYs))
			if err != nil {
				return fmt.Errorf("registry: insert series %q: %w", s.Label, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("registry: series id: %w", err)
			}

			var batch = make([]point, 0, r.cfg.BatchSize())
			for i, xy := range s.XYs {
				batch = append(batch, point{SeriesID: id, Seq: i, X: xy.X, Y: xy.Y})
				if len(batch) == cap(batch) || i == len(s.XYs)-1 {
					if _, err = tx.NamedExecContext(ctx,
						`INSERT INTO echem_points (series_id, seq, x, y) VALUES (:series_id, :seq, :x, :y)`, batch); err != nil {
						return fmt.Errorf("registry: insert points of %q: %w", s.Label, err)
					}
					batch = batch[:0]
				}
			}
		}
	}
	return nil
}

// Runs lists the recorded runs of a figure, newest first.
func (r *Registry) Runs(ctx context.Context, figure string) ([]Run, error) {
	var runs []Run
	err := r.db.SelectContext(ctx, &runs, `
		SELECT r.id, r.figure, r.title, r.created_at,
			(SELECT COUNT(*) FROM echem_series s WHERE s.run_id = r.id) AS series
		FROM echem_runs r
		WHERE r.figure = ?
		ORDER BY r.created_at DESC`, figure)
	if err != nil {
		return nil, fmt.Errorf("registry: list runs: %w", err)
	}
	return runs, nil
}

// Series returns the series stored for a run in insertion order.
func (r *Registry) Series(ctx context.Context, runID string) ([]StoredSeries, error) {
	var out []StoredSeries
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, run_id, panel, panel_title, label, points FROM echem_series WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("registry: list series: %w", err)
	}
	return out, nil
}

// Points returns the stored points of one series.
func (r *Registry) Points(ctx context.Context, seriesID int64) ([][2]float64, error) {
	var rows []point
	err := r.db.SelectContext(ctx, &rows,
		`SELECT series_id, seq, x, y FROM echem_points WHERE series_id = ? ORDER BY seq`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("registry: list points: %w", err)
	}
	var out = make([][2]float64, len(rows))
	for i, p := range rows {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out, nil
}
