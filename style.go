package echemplot

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Style describes how one series is drawn. The zero value is a solid line
// in the panel's next cycle colour, without markers.
type Style struct {
	Color      string  `yaml:"color,omitempty"`
	Marker     string  `yaml:"marker,omitempty"`
	Line       string  `yaml:"line,omitempty"`
	MarkerSize float64 `yaml:"markerSize,omitempty"`
}

const NoLine = "None"

var (
	ChargeMarkers  = []string{"o", "s", "^", "D", "v", "p", "*", "<", ">", "X"}
	DensityMarkers = []string{"o", "s", "^", "D", "v"}
	EISMarkers     = []string{"o", "s", "^", "D", "v", "p", "*", "X"}
	LineStyles     = []string{"-", "--", "-.", ":"}
)

// ReferenceStyle is used for the copper reference curves.
var ReferenceStyle = Style{Color: "grey", Line: "--"}

// UnknownChemicalStyle draws impedance data of chemicals missing from the
// configured list.
var UnknownChemicalStyle = Style{Color: "grey", Marker: "x", MarkerSize: 5}

// Cycle picks the i-th marker/line combination, as used for series whose
// identity carries no meaning.
func Cycle(i int, markers []string, size float64) Style {
	return Style{
		Marker:     markers[i%len(markers)],
		Line:       LineStyles[i%len(LineStyles)],
		MarkerSize: size,
	}
}

// ChemicalStyles assigns each chemical a colour sampled evenly from a
// perceptual colour map, in sorted order, with a marker from EISMarkers.
func ChemicalStyles(chemicals []string) map[string]Style {
	var sorted = append([]string(nil), chemicals...)
	sort.Strings(sorted)

	var cm = moreland.Kindlmann()
	cm.SetMin(0)
	cm.SetMax(1)

	var styles = make(map[string]Style, len(sorted))
	for i, chem := range sorted {
		// stay clear of the black and white ends of the map
		var at = 0.15
		if len(sorted) > 1 {
			at += 0.7 * float64(i) / float64(len(sorted)-1)
		}
		var c, err = cm.At(at)
		var hex = "grey"
		if err == nil {
			hex = hexColor(c)
		}
		styles[chem] = Style{
			Color:      hex,
			Marker:     EISMarkers[i%len(EISMarkers)],
			Line:       NoLine,
			MarkerSize: 5,
		}
	}
	return styles
}

var namedColors = map[string]color.Color{
	"black":  color.RGBA{A: 0xff},
	"red":    color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	"blue":   color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	"green":  color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	"orange": color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	"purple": color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	"grey":   color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"gray":   color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
}

// ParseColor accepts a colour name or #rrggbb.
func ParseColor(s string) (color.Color, error) {
	var name = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		var v, err = strconv.ParseUint(name[1:], 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
		}
	}
	return nil, fmt.Errorf("echemplot: unknown colour %q", s)
}

func hexColor(c color.Color) string {
	var r, g, b, _ = c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func (s Style) color(i int) color.Color {
	if s.Color != "" {
		if c, err := ParseColor(s.Color); err == nil {
			return c
		}
	}
	return plotutil.Color(i)
}

// dashes returns the dash pattern and whether a line is drawn at all.
func (s Style) dashes() ([]vg.Length, bool) {
	switch s.Line {
	case "", "-", "solid":
		return nil, true
	case "--", "dashed":
		return []vg.Length{vg.Points(6), vg.Points(3)}, true
	case "-.", "dashdot":
		return []vg.Length{vg.Points(6), vg.Points(2), vg.Points(1.5), vg.Points(2)}, true
	case ":", "dotted":
		return []vg.Length{vg.Points(1.5), vg.Points(2)}, true
	}
	return nil, false
}

// HasLine reports whether the series is drawn with a connecting line.
func (s Style) HasLine() bool {
	var _, ok = s.dashes()
	return ok
}

func (s Style) HasMarker() bool {
	var _, ok = s.glyph()
	return ok
}

func (s Style) glyph() (draw.GlyphDrawer, bool) {
	switch s.Marker {
	case "o":
		return draw.CircleGlyph{}, true
	case "s":
		return draw.BoxGlyph{}, true
	case "^":
		return polygonGlyph{sides: 3, rotate: math.Pi / 2}, true
	case "v":
		return polygonGlyph{sides: 3, rotate: -math.Pi / 2}, true
	case "<":
		return polygonGlyph{sides: 3, rotate: math.Pi}, true
	case ">":
		return polygonGlyph{sides: 3}, true
	case "D":
		return polygonGlyph{sides: 4, rotate: math.Pi / 2}, true
	case "p":
		return polygonGlyph{sides: 5, rotate: math.Pi / 2}, true
	case "*":
		return polygonGlyph{sides: 5, rotate: math.Pi / 2, star: true}, true
	case "x", "X":
		return draw.CrossGlyph{}, true
	case "+":
		return draw.PlusGlyph{}, true
	}
	return nil, false
}

func (s Style) markerRadius() vg.Length {
	if s.MarkerSize <= 0 {
		return vg.Points(3)
	}
	return vg.Points(s.MarkerSize / 2)
}

// polygonGlyph draws a filled regular polygon, or a star with the same
// number of points.
type polygonGlyph struct {
	sides  int
	rotate float64
	star   bool
}

func (g polygonGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	var n = g.sides
	var step = 2 * math.Pi / float64(n)
	if g.star {
		n *= 2
		step /= 2
	}
	var pts = make([]vg.Point, 0, n)
	for i := 0; i < n; i++ {
		var r = float64(sty.Radius)
		if g.star && i%2 == 1 {
			r *= 0.45
		}
		var a = g.rotate + float64(i)*step
		pts = append(pts, vg.Point{
			X: pt.X + vg.Length(r*math.Cos(a)),
			Y: pt.Y + vg.Length(r*math.Sin(a)),
		})
	}
	c.FillPolygon(sty.Color, pts)
}
