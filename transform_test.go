package echemplot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"
)

func TestShiftToZero(t *testing.T) {
	assert.Equal(t, []float64{0, 60, 150}, ShiftToZero([]float64{30, 90, 180}))
	assert.Empty(t, ShiftToZero(nil))
}

func TestSecondsToMinutes(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 2.5}, SecondsToMinutes(ShiftToZero([]float64{12, 72, 162})))
}

func TestCurrentDensity(t *testing.T) {
	j, err := CurrentDensity([]float64{0.001, -0.002}, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, -2}, j, 1e-12)

	j, err = CurrentDensity([]float64{0.001}, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, j[0], 1e-12)

	for _, area := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = CurrentDensity([]float64{1}, area)
		assert.Error(t, err, "area %v", area)
	}
}

func TestXYs(t *testing.T) {
	xys, err := XYs([]float64{0, 1, math.NaN(), 3}, []float64{5, math.Inf(1), 7, 8})
	require.NoError(t, err)
	assert.Equal(t, plotter.XYs{{X: 0, Y: 5}, {X: 3, Y: 8}}, xys)

	_, err = XYs([]float64{1}, nil)
	assert.Error(t, err)
}

func TestMarkEvery(t *testing.T) {
	var xys = make(plotter.XYs, 7)
	for i := range xys {
		xys[i] = plotter.XY{X: float64(i), Y: float64(i * i)}
	}

	var got = MarkEvery(xys, 3)
	assert.Equal(t, plotter.XYs{{X: 0, Y: 0}, {X: 3, Y: 9}, {X: 6, Y: 36}}, got)
	assert.Len(t, MarkEvery(xys, 1), 7)
	assert.Len(t, MarkEvery(xys, 0), 7)
	assert.Len(t, MarkEvery(xys, 100), 1)
}

func TestPositiveX(t *testing.T) {
	var got = PositiveX(plotter.XYs{{X: -1, Y: 1}, {X: 0, Y: 2}, {X: 0.1, Y: 3}})
	assert.Equal(t, plotter.XYs{{X: 0.1, Y: 3}}, got)
}
