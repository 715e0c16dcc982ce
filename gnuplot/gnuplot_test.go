//go:build gnuplot

package gnuplot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"

	"github.com/dati-mipt/echemplot"
)

func previewFigure() *echemplot.Figure {
	var fig = echemplot.NewFigure("test.png", "", 1, 3, 4, 2)
	fig.Panel(0, 0).Add(echemplot.Series{
		Label: "a",
		XYs:   plotter.XYs{{X: 0, Y: 1}, {X: 1, Y: 2}},
		Style: echemplot.Style{Marker: "o"},
	})
	fig.Panel(0, 1).LogX = true
	fig.Panel(0, 1).XRange = &echemplot.Range{Min: 0.1, Max: 1000}
	fig.Panel(0, 1).Add(echemplot.Series{
		Label: "b",
		XYs:   plotter.XYs{{X: -1, Y: 1}, {X: 10, Y: 2}, {X: 100, Y: 3}},
		Style: echemplot.ReferenceStyle,
	})
	return fig
}

func TestStyle(t *testing.T) {
	assert.Equal(t, "lp", style(echemplot.Style{Marker: "o", Line: "-"}))
	assert.Equal(t, "points", style(echemplot.Style{Marker: "s", Line: echemplot.NoLine}))
	assert.Equal(t, "lines", style(echemplot.ReferenceStyle))
}

func TestRenderRemote(t *testing.T) {
	var err = (&Renderer{}).Render(context.Background(), previewFigure(), "mem://localhost/out/x.png")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	if !Available() {
		t.Skip("gnuplot not installed")
	}
	var dir = t.TempDir()
	require.NoError(t, (&Renderer{}).Render(context.Background(), previewFigure(), filepath.Join(dir, "test.png")))

	for _, name := range []string{"test-r0c0.png", "test-r0c1.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(dir, "test-r0c2.png"))
	assert.True(t, os.IsNotExist(err), "empty panels are not drawn")
}
