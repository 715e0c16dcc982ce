//go:build gnuplot

// Package gnuplot renders quick-look previews of echemplot figures with the
// gnuplot binary. Importing it requires gnuplot on PATH: the glot front-end
// looks the binary up when the program starts.
package gnuplot

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"path"
	"strings"

	"github.com/Arafatk/glot"
	"go.uber.org/zap"

	"github.com/dati-mipt/echemplot"
)

// Renderer writes one image per non-empty panel, named
// "<base>-r<row>c<col>.png" next to the requested location.
// Only local locations are supported.
type Renderer struct {
	Logger *zap.Logger
}

var _ echemplot.Renderer = (*Renderer)(nil)

// Available reports whether the gnuplot binary is on PATH.
func Available() bool {
	var _, err = exec.LookPath("gnuplot")
	return err == nil
}

func (r *Renderer) Render(ctx context.Context, fig *echemplot.Figure, location string) error {
	var logger = r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	local, err := echemplot.LocalPath(location)
	if err != nil {
		return err
	}

	var base = strings.TrimSuffix(local, path.Ext(local))
	for i := 0; i < fig.Rows; i++ {
		for j := 0; j < fig.Cols; j++ {
			if err = ctx.Err(); err != nil {
				return err
			}
			var panel = fig.Panel(i, j)
			if len(panel.Series) == 0 {
				continue
			}
			var out = fmt.Sprintf("%s-r%dc%d.png", base, i, j)
			if err = draw(panel, out); err != nil {
				return fmt.Errorf("panel %d,%d: %w", i, j, err)
			}
			logger.Info("preview saved", zap.String("figure", fig.Name), zap.String("file", out))
		}
	}
	return nil
}

func draw(panel *echemplot.Panel, out string) error {
	var p, err = glot.NewPlot(2, false, false)
	if err != nil {
		return err
	}
	defer p.Close()

	for _, s := range panel.Series {
		var xys = s.XYs
		if panel.LogX {
			xys = echemplot.PositiveX(xys)
		}
		if len(xys) == 0 {
			continue
		}
		var xs, ys = make([]float64, len(xys)), make([]float64, len(xys))
		for k, pt := range xys {
			xs[k], ys[k] = pt.X, pt.Y
		}
		var name = s.Label
		if name == "" {
			name = "series"
		}
		if err = p.AddPointGroup(name, style(s.Style), [][]float64{xs, ys}); err != nil {
			return err
		}
	}

	if title := strings.TrimSpace(panel.Title); title != "" {
		if err = p.SetTitle(title); err != nil {
			return err
		}
	}
	if err = p.SetXLabel(panel.XLabel); err != nil {
		return err
	}
	if err = p.SetYLabel(panel.YLabel); err != nil {
		return err
	}
	if panel.LogX {
		if err = p.SetLogscale("x", 10); err != nil {
			return err
		}
	}
	if r := panel.XRange; r != nil {
		if err = p.SetXrange(int(math.Floor(r.Min)), int(math.Ceil(r.Max))); err != nil {
			return err
		}
	}
	if r := panel.YRange; r != nil {
		if err = p.SetYrange(int(math.Floor(r.Min)), int(math.Ceil(r.Max))); err != nil {
			return err
		}
	}
	return p.SavePlot(out)
}

func style(s echemplot.Style) string {
	switch {
	case s.HasLine() && s.HasMarker():
		return "lp"
	case s.HasMarker():
		return "points"
	}
	return "lines"
}
