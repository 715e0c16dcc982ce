//go:build gnuplot

package main

import (
	"github.com/dati-mipt/echemplot"
	"github.com/dati-mipt/echemplot/gnuplot"
)

func init() {
	backends["gnuplot"] = func(*echemplot.Source, *echemplot.Config) echemplot.Renderer {
		return &gnuplot.Renderer{Logger: logger}
	}
}
