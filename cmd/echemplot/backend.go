package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dati-mipt/echemplot"
)

type backendFunc func(src *echemplot.Source, cfg *echemplot.Config) echemplot.Renderer

// backends maps --backend values to renderers. Optional backends register
// themselves from files behind build tags.
var backends = map[string]backendFunc{
	"gonum": func(src *echemplot.Source, cfg *echemplot.Config) echemplot.Renderer {
		return &echemplot.PlotRenderer{Source: src, DPI: cfg.DPI, Logger: logger}
	},
}

func newRenderer(name string, src *echemplot.Source, cfg *echemplot.Config) (echemplot.Renderer, error) {
	if name == "" {
		name = "gonum"
	}
	if fn, ok := backends[name]; ok {
		return fn(src, cfg), nil
	}
	if name == "gnuplot" {
		return nil, fmt.Errorf("backend %q is not built in (rebuild with -tags gnuplot)", name)
	}
	var names = make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown backend %q (want %s)", name, strings.Join(names, " or "))
}
