package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dati-mipt/echemplot"
	"github.com/dati-mipt/echemplot/registry"
)

var jobNames = []string{"ca", "ca-density", "eis", "lsv"}

var jobShort = map[string]string{
	"ca":         "Combined charge vs. time chart",
	"ca-density": "Current density vs. time, one panel per pH",
	"eis":        "Nyquist and Bode grids",
	"lsv":        "Linear sweep comparison per chemical",
}

func newJobCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [data-dir]",
		Short: jobShort[name],
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			return runJobs(cmd.Context(), []string{name}, dir)
		},
	}
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every chart job concurrently",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJobs(cmd.Context(), jobNames, "")
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [job...]",
	Short: "Re-render charts whenever their data directory changes",
	Long: `Watches the data directory of each named job (all jobs when none is given)
and re-runs the job once the directory has been quiet for a moment.
Only local directories can be watched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = jobNames
		}
		return watchJobs(cmd.Context(), args)
	},
}

type app struct {
	cfg    *echemplot.Config
	src    *echemplot.Source
	runner *echemplot.Runner
	close  func()
}

func setup(ctx context.Context) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var src = echemplot.NewSource()

	var cfg = echemplot.NewConfig()
	if configPath != "" {
		var err error
		if cfg, err = echemplot.LoadConfig(ctx, src, configPath); err != nil {
			return nil, err
		}
	}
	if outDir != "" {
		cfg.OutDir = outDir
	}
	if dpi > 0 {
		cfg.DPI = dpi
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	renderer, err := newRenderer(backend, src, cfg)
	if err != nil {
		return nil, err
	}

	var a = &app{
		cfg: cfg,
		src: src,
		runner: &echemplot.Runner{
			Config:   cfg,
			Renderer: renderer,
			Logger:   logger,
		},
		close: func() {},
	}
	if registryDSN != "" {
		reg, err := registry.Open(ctx, registryDSN, logger)
		if err != nil {
			return nil, err
		}
		a.runner.Recorder = reg
		a.close = func() {
			if err := reg.Close(); err != nil {
				logger.Warn("closing registry", zap.Error(err))
			}
		}
	}
	return a, nil
}

func (a *app) jobs(names []string, dir string) ([]echemplot.Job, error) {
	var cfg = a.cfg
	if dir != "" {
		cfg = cfg.Clone()
		cfg.Charge.Dir, cfg.Density.Dir, cfg.EIS.Dir, cfg.LSV.Dir = dir, dir, dir, dir
	}
	var jobs []echemplot.Job
	for _, name := range names {
		var j = echemplot.JobByName(name, cfg, a.src, logger)
		if j == nil {
			return nil, fmt.Errorf("unknown job %q", name)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func runJobs(ctx context.Context, names []string, dir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	jobs, err := a.jobs(names, dir)
	if err != nil {
		return err
	}
	if len(jobs) == 1 {
		return a.runner.Run(ctx, jobs[0])
	}
	return a.runner.RunAll(ctx, jobs)
}

func watchJobs(ctx context.Context, names []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	jobs, err := a.jobs(names, "")
	if err != nil {
		return err
	}

	// jobs sharing a directory share a watcher
	var byDir = map[string][]echemplot.Job{}
	var dirs []string
	for _, j := range jobs {
		var dir = dataDir(a.cfg, j.Name())
		if _, ok := byDir[dir]; !ok {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], j)
	}

	var watchers []*echemplot.Watcher
	defer func() {
		for _, w := range watchers {
			w.Stop()
		}
	}()
	for _, dir := range dirs {
		var group = byDir[dir]
		w, err := echemplot.NewWatcher(dir, func(ctx context.Context) error {
			return a.runner.RunAll(ctx, group)
		}, echemplot.WithWatchLogger(logger), echemplot.WithFilter(inputsOf(group)))
		if err != nil {
			return err
		}
		watchers = append(watchers, w)
		if err = w.Start(ctx); err != nil {
			return err
		}
		// render once so the charts exist before the first change
		if err = a.runner.RunAll(ctx, group); err != nil {
			logger.Error("initial render failed", zap.String("dir", dir), zap.Error(err))
		}
	}

	<-ctx.Done()
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// inputsOf accepts the file names any of jobs reads, so rendered charts
// written next to the data do not trigger another render.
func inputsOf(jobs []echemplot.Job) func(name string) bool {
	return func(name string) bool {
		for _, j := range jobs {
			if j.Accepts(name) {
				return true
			}
		}
		return false
	}
}

func dataDir(cfg *echemplot.Config, job string) string {
	switch job {
	case "ca":
		return cfg.Charge.Dir
	case "ca-density":
		return cfg.Density.Dir
	case "eis":
		return cfg.EIS.Dir
	}
	return cfg.LSV.Dir
}
