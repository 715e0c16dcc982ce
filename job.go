package echemplot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/plotter"
)

var ErrNoData = errors.New("echemplot: no data to plot")

// Job turns one data directory into figures. Accepts reports whether a file
// name in that directory is one of the job's inputs.
type Job interface {
	Name() string
	Accepts(name string) bool
	Build(ctx context.Context) ([]*Figure, error)
}

// Recorder stores the series of a rendered figure, see the registry package.
type Recorder interface {
	Record(ctx context.Context, fig *Figure) error
}

// Jobs returns the four chart jobs in a fixed order.
func Jobs(cfg *Config, src *Source, logger *zap.Logger) []Job {
	var e = newEnv(cfg, src, logger)
	return []Job{
		&ChargeJob{env: e},
		&DensityJob{env: e},
		&EISJob{env: e},
		&LSVJob{env: e},
	}
}

// JobByName returns nil when name is unknown.
func JobByName(name string, cfg *Config, src *Source, logger *zap.Logger) Job {
	for _, j := range Jobs(cfg, src, logger) {
		if j.Name() == name {
			return j
		}
	}
	return nil
}

type env struct {
	cfg    *Config
	src    *Source
	logger *zap.Logger
}

func newEnv(cfg *Config, src *Source, logger *zap.Logger) env {
	if logger == nil {
		logger = zap.NewNop()
	}
	return env{cfg: cfg, src: src, logger: logger}
}

// series loads two columns of a file, applying fx and fy to them.
func (e env) series(ctx context.Context, f File, comma rune, xcol, ycol string,
	fx, fy func([]float64) ([]float64, error)) (plotter.XYs, error) {
	t, err := e.src.Table(ctx, f.URL, comma)
	if err != nil {
		return nil, err
	}
	return columnsXY(t, xcol, ycol, fx, fy)
}

func columnsXY(t *Table, xcol, ycol string, fx, fy func([]float64) ([]float64, error)) (plotter.XYs, error) {
	xs, err := t.Column(xcol)
	if err != nil {
		return nil, err
	}
	ys, err := t.Column(ycol)
	if err != nil {
		return nil, err
	}
	if fx != nil {
		if xs, err = fx(xs); err != nil {
			return nil, err
		}
	}
	if fy != nil {
		if ys, err = fy(ys); err != nil {
			return nil, err
		}
	}
	return XYs(xs, ys)
}

func (e env) minutesFromStart(xs []float64) ([]float64, error) {
	return SecondsToMinutes(ShiftToZero(xs)), nil
}

func (e env) density(amps []float64) ([]float64, error) {
	return CurrentDensity(amps, e.cfg.ElectrodeArea)
}

func (e env) skip(f File, reason string, err error) {
	var fields = []zap.Field{zap.String("file", f.Name), zap.String("reason", reason)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	e.logger.Warn("skipping file", fields...)
}

// Runner builds, renders and optionally records jobs.
type Runner struct {
	Config   *Config
	Renderer Renderer
	Recorder Recorder
	Logger   *zap.Logger
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Run executes one job. Every figure is attempted; the returned error joins
// the failures.
func (r *Runner) Run(ctx context.Context, job Job) error {
	var figs, err = job.Build(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", job.Name(), err)
	}

	var errs []error
	for _, fig := range figs {
		if fig.SeriesCount() == 0 {
			r.logger().Warn("figure has no series", zap.String("job", job.Name()), zap.String("figure", fig.Name))
		}
		if err = r.Renderer.Render(ctx, fig, r.Config.Output(fig.Name)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name(), err))
			continue
		}
		if r.Recorder == nil {
			continue
		}
		if err = r.Recorder.Record(ctx, fig); err != nil {
			errs = append(errs, fmt.Errorf("%s: record %s: %w", job.Name(), fig.Name, err))
		}
	}
	return errors.Join(errs...)
}

// RunAll executes jobs concurrently. A failing job does not cancel the
// others; all failures are returned together.
func (r *Runner) RunAll(ctx context.Context, jobs []Job) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(len(jobs))
	for _, job := range jobs {
		g.Go(func() error {
			if err := r.Run(ctx, job); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
