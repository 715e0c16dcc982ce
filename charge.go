package echemplot

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	colTime    = "Time (s)"
	colCharge  = "WE(1).Charge (C)"
	colCurrent = "WE(1).Current (A)"
)

// ChargeJob overlays every chronoamperometry run as charge against time
// since the start of the run.
type ChargeJob struct {
	env
}

func (j *ChargeJob) Name() string { return "ca" }

func (j *ChargeJob) Accepts(name string) bool { return strings.HasSuffix(name, ".txt") }

func (j *ChargeJob) Build(ctx context.Context) ([]*Figure, error) {
	var cfg = j.cfg.Charge
	files, err := j.src.List(ctx, cfg.Dir, j.Accepts)
	if err != nil {
		return nil, err
	}

	var fig = NewFigure(cfg.Output, "", 1, 1, cfg.Width, cfg.Height)
	var panel = fig.Panel(0, 0)
	panel.Title = "Combined Chronoamperometry Analysis (Time Normalised)"
	panel.XLabel = "Time (min)"
	panel.YLabel = "Charge (C)"
	panel.LegendTitle = "System"

	for _, f := range files {
		var label, ok = ChargeLabel(f.Name)
		if !ok {
			j.logger.Info("skipping unrecognised file", zap.String("file", f.Name))
			continue
		}
		xys, err := j.series(ctx, f, TabSeparated, colTime, colCharge, j.minutesFromStart, nil)
		if err != nil {
			j.skip(f, "cannot load charge", err)
			continue
		}
		panel.Add(Series{
			Label:     label,
			XYs:       xys,
			Style:     Cycle(len(panel.Series), ChargeMarkers, 7),
			MarkEvery: cfg.MarkEvery,
		})
		j.logger.Debug("series added", zap.String("file", f.Name), zap.String("label", label), zap.Int("points", len(xys)))
	}
	return []*Figure{fig}, nil
}
