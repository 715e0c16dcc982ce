package echemplot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const densityLabel = "j (mA/cm²)"

// DensityJob draws one panel per pH with the current density of each system,
// over the copper reference run.
type DensityJob struct {
	env
}

func (j *DensityJob) Name() string { return "ca-density" }

func (j *DensityJob) Accepts(name string) bool { return strings.HasSuffix(name, ".txt") }

func (j *DensityJob) Build(ctx context.Context) ([]*Figure, error) {
	var cfg = j.cfg.Density
	files, err := j.src.List(ctx, cfg.Dir, j.Accepts)
	if err != nil {
		return nil, err
	}

	var (
		reference *File
		groups    = map[string][]File{}
		labels    = map[string]string{}
	)
	for i, f := range files {
		var c, ok = ClassifyCA(f.Name)
		switch {
		case !ok:
			j.logger.Info("skipping unrecognised file", zap.String("file", f.Name))
		case c.Reference:
			// the last copper run in name order wins
			reference = &files[i]
		default:
			groups[c.PH] = append(groups[c.PH], f)
			labels[f.URL] = c.Label
		}
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no pH groups in %s", ErrNoData, cfg.Dir)
	}

	var keys = make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var refSeries *Series
	if reference != nil {
		xys, err := j.series(ctx, *reference, TabSeparated, colTime, colCurrent, j.minutesFromStart, j.density)
		if err != nil {
			j.skip(*reference, "cannot load reference", err)
		} else {
			refSeries = &Series{Label: "Cu Reference", XYs: xys, Style: ReferenceStyle}
		}
	}

	var fig = NewFigure(cfg.Output, "Chronoamperometry Analysis: Current Density vs. Time",
		len(keys), 1, cfg.Width, cfg.Height)
	fig.ShareX = true

	for i, key := range keys {
		var panel = fig.Panel(i, 0)
		panel.Title = "Analysis for " + key
		panel.YLabel = densityLabel
		panel.LegendTitle = "System"
		if i == len(keys)-1 {
			panel.XLabel = "Time (min)"
		}
		if refSeries != nil {
			panel.Add(*refSeries)
		}

		var plotted int
		for _, f := range groups[key] {
			xys, err := j.series(ctx, f, TabSeparated, colTime, colCurrent, j.minutesFromStart, j.density)
			if err != nil {
				j.skip(f, "cannot load current", err)
				continue
			}
			panel.Add(Series{
				Label:     labels[f.URL],
				XYs:       xys,
				Style:     Cycle(plotted, DensityMarkers, 6),
				MarkEvery: cfg.MarkEvery,
			})
			plotted++
		}
	}
	return []*Figure{fig}, nil
}
