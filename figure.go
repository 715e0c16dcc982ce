package echemplot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"path"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var ErrUnknownFormat = errors.New("echemplot: unknown image format")

// Figure is a grid of panels saved to one image.
type Figure struct {
	Name   string // output file name, the extension selects the format
	Title  string
	Rows   int
	Cols   int
	Width  float64 // inches
	Height float64 // inches
	ShareX bool
	ShareY bool
	Panels []*Panel // row-major, Rows*Cols entries
}

type Panel struct {
	Title       string
	XLabel      string
	YLabel      string
	LogX        bool
	XRange      *Range
	YRange      *Range
	LegendTitle string
	Series      []Series
}

type Range struct{ Min, Max float64 }

type Series struct {
	Label     string
	XYs       plotter.XYs
	Style     Style
	MarkEvery int
}

func NewFigure(name, title string, rows, cols int, width, height float64) *Figure {
	var f = &Figure{
		Name:   name,
		Title:  title,
		Rows:   rows,
		Cols:   cols,
		Width:  width,
		Height: height,
		Panels: make([]*Panel, rows*cols),
	}
	for i := range f.Panels {
		f.Panels[i] = &Panel{}
	}
	return f
}

// Panel returns the panel at row r, column c.
func (f *Figure) Panel(r, c int) *Panel {
	return f.Panels[r*f.Cols+c]
}

// SeriesCount is the number of series over all panels.
func (f *Figure) SeriesCount() int {
	var n int
	for _, p := range f.Panels {
		n += len(p.Series)
	}
	return n
}

func (p *Panel) Add(s Series) {
	p.Series = append(p.Series, s)
}

// Renderer writes a figure to a location.
type Renderer interface {
	Render(ctx context.Context, fig *Figure, location string) error
}

// PlotRenderer draws figures with gonum/plot and stores them via a Source.
type PlotRenderer struct {
	Source *Source
	DPI    int
	Logger *zap.Logger
}

func (r *PlotRenderer) Render(ctx context.Context, fig *Figure, location string) error {
	var logger = r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := r.Encode(fig, formatOf(location))
	if err != nil {
		return fmt.Errorf("render %s: %w", fig.Name, err)
	}
	if err = r.Source.Upload(ctx, location, data); err != nil {
		return err
	}
	logger.Info("chart saved", zap.String("figure", fig.Name), zap.String("location", location),
		zap.Int("series", fig.SeriesCount()))
	return nil
}

// Encode draws fig into an image of the given format (png, tiff, jpg, svg,
// pdf, eps).
func (r *PlotRenderer) Encode(fig *Figure, format string) ([]byte, error) {
	if fig.Rows <= 0 || fig.Cols <= 0 || len(fig.Panels) != fig.Rows*fig.Cols {
		return nil, fmt.Errorf("echemplot: figure %q has %d panels for a %dx%d grid",
			fig.Name, len(fig.Panels), fig.Rows, fig.Cols)
	}

	var w, h = vg.Length(fig.Width) * vg.Inch, vg.Length(fig.Height) * vg.Inch
	cw, err := newCanvas(format, w, h, r.DPI)
	if err != nil {
		return nil, err
	}
	var dc = draw.New(cw)

	var plots = make([][]*plot.Plot, fig.Rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, fig.Cols)
		for j := range plots[i] {
			plots[i][j], err = buildPlot(fig.Panel(i, j))
			if err != nil {
				return nil, fmt.Errorf("panel %d,%d: %w", i, j, err)
			}
		}
	}
	shareAxes(fig, plots)

	var tiles = draw.Tiles{
		Rows:      fig.Rows,
		Cols:      fig.Cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadTop:    vg.Millimeter * 2,
	}
	if fig.Title != "" {
		var sty = plot.New().Title.TextStyle
		sty.Font.Size = vg.Points(18)
		sty.XAlign = text.XCenter
		sty.YAlign = text.YTop
		var top = dc.Max.Y - vg.Millimeter*2
		dc.FillText(sty, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: top}, fig.Title)
		tiles.PadTop += sty.Height(fig.Title) + vg.Millimeter*4
	}

	var canvases = plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	var buf bytes.Buffer
	if _, err = cw.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func formatOf(location string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(location), "."))
}

func newCanvas(format string, w, h vg.Length, dpi int) (vg.CanvasWriterTo, error) {
	if dpi <= 0 {
		dpi = 96
	}
	switch format {
	case "png":
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "svg", "pdf", "eps":
		return draw.NewFormattedCanvas(w, h, format)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

func buildPlot(panel *Panel) (*plot.Plot, error) {
	var p = plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	p.Legend.Top = true

	var grid = plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(grid)

	if panel.LegendTitle != "" && len(panel.Series) > 0 {
		p.Legend.Add(panel.LegendTitle)
	}

	var drawn int
	for i, s := range panel.Series {
		var xys = s.XYs
		if panel.LogX {
			xys = PositiveX(xys)
		}
		if len(xys) == 0 {
			continue
		}

		var clr = s.Style.color(i)
		var thumbs []plot.Thumbnailer
		if dashes, ok := s.Style.dashes(); ok {
			l, err := plotter.NewLine(xys)
			if err != nil {
				return nil, fmt.Errorf("series %q: %w", s.Label, err)
			}
			l.LineStyle.Color = clr
			l.LineStyle.Width = vg.Points(1.2)
			l.LineStyle.Dashes = dashes
			p.Add(l)
			thumbs = append(thumbs, l)
		}
		if shape, ok := s.Style.glyph(); ok {
			sc, err := plotter.NewScatter(MarkEvery(xys, s.MarkEvery))
			if err != nil {
				return nil, fmt.Errorf("series %q: %w", s.Label, err)
			}
			sc.GlyphStyle = draw.GlyphStyle{Color: clr, Radius: s.Style.markerRadius(), Shape: shape}
			p.Add(sc)
			thumbs = append(thumbs, sc)
		}
		if s.Label != "" && len(thumbs) > 0 {
			p.Legend.Add(s.Label, thumbs...)
		}
		drawn++
	}

	if panel.LogX && drawn > 0 {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if panel.XRange != nil {
		p.X.Min, p.X.Max = panel.XRange.Min, panel.XRange.Max
	}
	if panel.YRange != nil {
		p.Y.Min, p.Y.Max = panel.YRange.Min, panel.YRange.Max
	}
	return p, nil
}

// shareAxes widens every panel to the common data range when a figure
// shares an axis, leaving fixed ranges alone.
func shareAxes(fig *Figure, plots [][]*plot.Plot) {
	var widen = func(axis func(*plot.Plot) *plot.Axis, fixed func(*Panel) bool) {
		var lo, hi = math.Inf(1), math.Inf(-1)
		for i := range plots {
			for j, p := range plots[i] {
				if fixed(fig.Panel(i, j)) || len(fig.Panel(i, j).Series) == 0 {
					continue
				}
				var a = axis(p)
				lo, hi = math.Min(lo, a.Min), math.Max(hi, a.Max)
			}
		}
		if lo > hi {
			return
		}
		for i := range plots {
			for j, p := range plots[i] {
				if fixed(fig.Panel(i, j)) {
					continue
				}
				var a = axis(p)
				a.Min, a.Max = lo, hi
			}
		}
	}
	if fig.ShareX {
		widen(func(p *plot.Plot) *plot.Axis { return &p.X }, func(p *Panel) bool { return p.XRange != nil })
	}
	if fig.ShareY {
		widen(func(p *plot.Plot) *plot.Axis { return &p.Y }, func(p *Panel) bool { return p.YRange != nil })
	}
}
