package echemplot

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const colPotential = "Potential applied (V)"

// LSVJob draws one panel per chemical with a curve per pH over the copper
// reference sweep.
type LSVJob struct {
	env
}

func (j *LSVJob) Name() string { return "lsv" }

// Accepts matches sweep exports and the reference, which carry no extension.
func (j *LSVJob) Accepts(name string) bool { return strings.HasPrefix(name, "LSV_") }

func (j *LSVJob) Build(ctx context.Context) ([]*Figure, error) {
	var cfg = j.cfg.LSV
	files, err := j.src.List(ctx, cfg.Dir, j.Accepts)
	if err != nil {
		return nil, err
	}

	var refSeries *Series
	var refLocation = Join(cfg.Dir, cfg.Reference)
	if cfg.Reference != "" && j.src.Exists(ctx, refLocation) {
		var ref = File{Name: cfg.Reference, URL: refLocation}
		xys, err := j.series(ctx, ref, TabSeparated, colPotential, colCurrent, nil, j.density)
		if err != nil {
			j.skip(ref, "cannot load reference", err)
		} else {
			refSeries = &Series{Label: "Reference Cu", XYs: xys, Style: ReferenceStyle}
		}
	}

	var fig = NewFigure(cfg.Output, "", 1, len(cfg.Chemicals), cfg.Width, cfg.Height)
	fig.ShareY = true

	for i, chemical := range cfg.Chemicals {
		var panel = fig.Panel(0, i)
		panel.Title = chemical
		panel.XLabel = "E / V vs Ag/AgCl (sat KCl)"
		panel.LegendTitle = "Sample"
		if i == 0 {
			panel.YLabel = densityLabel
		}
		if refSeries != nil {
			panel.Add(*refSeries)
		}

		for _, f := range files {
			if !LSVMatch(f.Name, chemical) {
				continue
			}
			var ph = LSVPH(f.Name)
			var style, ok = cfg.Styles[ph]
			if !ok {
				style = cfg.DefaultStyle
			}
			xys, err := j.series(ctx, f, TabSeparated, colPotential, colCurrent, nil, j.density)
			if err != nil {
				j.skip(f, "cannot load sweep", err)
				continue
			}
			panel.Add(Series{Label: ph, XYs: xys, Style: style})
			j.logger.Debug("series added", zap.String("file", f.Name), zap.String("chemical", chemical), zap.String("ph", ph))
		}
	}
	return []*Figure{fig}, nil
}
