package echemplot

import (
	"fmt"
	"math"

	"gonum.org/v1/plot/plotter"
)

// ShiftToZero returns xs offset so that the first sample is zero.
func ShiftToZero(xs []float64) []float64 {
	var out = make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	var first = xs[0]
	for i, x := range xs {
		out[i] = x - first
	}
	return out
}

func SecondsToMinutes(xs []float64) []float64 {
	var out = make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x / 60
	}
	return out
}

// CurrentDensity converts a working-electrode current in A to mA/cm².
func CurrentDensity(amps []float64, areaCm2 float64) ([]float64, error) {
	if areaCm2 <= 0 || math.IsNaN(areaCm2) || math.IsInf(areaCm2, 0) {
		return nil, fmt.Errorf("echemplot: electrode area must be positive, got %v", areaCm2)
	}
	var out = make([]float64, len(amps))
	for i, a := range amps {
		out[i] = a * 1000 / areaCm2
	}
	return out, nil
}

// XYs pairs two columns, dropping samples where either value is not finite.
func XYs(xs, ys []float64) (plotter.XYs, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("echemplot: column length mismatch %d != %d", len(xs), len(ys))
	}
	var out = make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		out = append(out, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return out, nil
}

// MarkEvery keeps every n-th point, starting with the first.
func MarkEvery(xys plotter.XYs, n int) plotter.XYs {
	if n <= 1 {
		return xys
	}
	var out = make(plotter.XYs, 0, len(xys)/n+1)
	for i := 0; i < len(xys); i += n {
		out = append(out, xys[i])
	}
	return out
}

func PositiveX(xys plotter.XYs) plotter.XYs {
	var out = make(plotter.XYs, 0, len(xys))
	for _, p := range xys {
		if p.X > 0 {
			out = append(out, p)
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
