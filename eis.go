package echemplot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/plot/plotter"
)

const (
	colFrequency = "Frequency (Hz)"
	colZReal     = "Z' (Ω)"
	colZImag     = "-Z'' (Ω)"
	colZMod      = "Z (Ω)"
	colPhase     = "-Phase (°)"
)

// experiment is one impedance measurement, stored in one file or split over
// a Nyquist and a Bode export.
type experiment struct {
	EISName
	files []File
}

// groupEIS parses file names and groups them by experiment ID, keeping the
// first-seen order. Files with unparseable names are dropped.
func groupEIS(files []File) []*experiment {
	var (
		byID  = map[string]*experiment{}
		order []*experiment
	)
	for _, f := range files {
		var n, ok = ParseEISName(f.Name)
		if !ok {
			continue
		}
		var exp = byID[n.ID]
		if exp == nil {
			exp = &experiment{EISName: n}
			byID[n.ID] = exp
			order = append(order, exp)
		}
		exp.files = append(exp.files, f)
	}
	return order
}

// loadImpedance reads an experiment, joining split exports on frequency with
// the file that carries Z' as primary.
func (e env) loadImpedance(ctx context.Context, exp *experiment) (*Table, error) {
	switch len(exp.files) {
	case 1:
		return e.src.Table(ctx, exp.files[0].URL, SemicolonSeparated)
	case 2:
		first, err := e.src.Table(ctx, exp.files[0].URL, SemicolonSeparated)
		if err != nil {
			return nil, err
		}
		second, err := e.src.Table(ctx, exp.files[1].URL, SemicolonSeparated)
		if err != nil {
			return nil, err
		}
		if !second.Has(colZReal) {
			return MergeOn(first, second, colFrequency)
		}
		return MergeOn(second, first, colFrequency)
	}
	return nil, fmt.Errorf("echemplot: experiment %q has %d files, expected 1 or 2", exp.ID, len(exp.files))
}

// EISJob draws Nyquist, Bode magnitude and Bode phase grids with one row per
// pH and one column per electrode condition. Experiments without a pH are
// drawn in every row of their condition.
type EISJob struct {
	env
}

func (j *EISJob) Name() string { return "eis" }

func (j *EISJob) Accepts(name string) bool { return strings.HasSuffix(name, ".txt") }

func (j *EISJob) Build(ctx context.Context) ([]*Figure, error) {
	var cfg = j.cfg.EIS
	files, err := j.src.List(ctx, cfg.Dir, j.Accepts)
	if err != nil {
		return nil, err
	}
	var experiments = groupEIS(files)
	j.logger.Debug("impedance experiments", zap.Int("files", len(files)), zap.Int("experiments", len(experiments)))

	var rows, cols = len(cfg.Rows), len(cfg.Cols)
	var nyquist = NewFigure(cfg.NyquistOutput, "Nyquist Plots", rows, cols, cfg.Width, cfg.Height)
	var magnitude = NewFigure(cfg.MagnitudeOutput, "Bode Plots (Magnitude)", rows, cols, cfg.Width, cfg.Height)
	magnitude.ShareX = true
	var phase = NewFigure(cfg.PhaseOutput, "Bode Plots (Phase)", rows, cols, cfg.Width, cfg.Height)
	phase.ShareX, phase.ShareY = true, true

	var styles = ChemicalStyles(cfg.Chemicals)
	var fallback = UnknownChemicalStyle

	type loaded struct {
		nyquist, magnitude, phase plotter.XYs
	}
	var cache = map[string]*loaded{}
	var load = func(exp *experiment) *loaded {
		if l, ok := cache[exp.ID]; ok {
			return l
		}
		var l *loaded
		defer func() { cache[exp.ID] = l }()

		t, err := j.loadImpedance(ctx, exp)
		if err != nil {
			j.logger.Warn("skipping experiment", zap.String("experiment", exp.ID), zap.Error(err))
			return nil
		}
		l = &loaded{}
		var views = []struct {
			name   string
			x, y   string
			target *plotter.XYs
		}{
			{"nyquist", colZReal, colZImag, &l.nyquist},
			{"magnitude", colFrequency, colZMod, &l.magnitude},
			{"phase", colFrequency, colPhase, &l.phase},
		}
		for _, v := range views {
			xys, err := columnsXY(t, v.x, v.y, nil, nil)
			if err != nil {
				j.logger.Warn("missing impedance view", zap.String("experiment", exp.ID),
					zap.String("view", v.name), zap.Error(err))
				continue
			}
			*v.target = xys
		}
		return l
	}

	for r, ph := range cfg.Rows {
		for c, cond := range cfg.Cols {
			var title = ph + ", " + cond
			var pn, pm, pp = nyquist.Panel(r, c), magnitude.Panel(r, c), phase.Panel(r, c)
			pn.Title, pm.Title, pp.Title = title, title, title

			pn.XLabel, pn.YLabel = "Z' / Ω", "-Z'' / Ω"
			pn.XRange = &Range{Min: 0, Max: cfg.NyquistMax}
			pn.YRange = &Range{Min: 0, Max: cfg.NyquistMax}
			pm.YLabel, pm.LogX = "|Z| / Ω", true
			pp.YLabel, pp.LogX = "-Phase / °", true
			if r == rows-1 {
				pm.XLabel, pp.XLabel = "Frequency / Hz", "Frequency / Hz"
			}

			for _, exp := range cell(experiments, ph, cond) {
				var l = load(exp)
				if l == nil {
					continue
				}
				var style, ok = styles[exp.Chemical]
				if !ok {
					style = fallback
				}
				if len(l.nyquist) > 0 {
					pn.Add(Series{Label: exp.Chemical, XYs: l.nyquist, Style: style})
				}
				if len(l.magnitude) > 0 {
					pm.Add(Series{Label: exp.Chemical, XYs: l.magnitude, Style: style})
				}
				if len(l.phase) > 0 {
					pp.Add(Series{Label: exp.Chemical, XYs: l.phase, Style: style})
				}
			}
		}
	}
	return []*Figure{nyquist, magnitude, phase}, nil
}

// cell selects the experiments of one grid cell sorted by chemical.
func cell(experiments []*experiment, ph, cond string) []*experiment {
	var out []*experiment
	for _, exp := range experiments {
		if exp.Condition != cond {
			continue
		}
		if exp.PH != ph && exp.PH != NoPH {
			continue
		}
		out = append(out, exp)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Chemical < out[b].Chemical })
	return out
}
