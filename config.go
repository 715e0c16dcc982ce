package echemplot

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	defaultElectrodeArea = 1.0
	defaultDPI           = 600
)

// Config holds every tunable of the chart jobs. A new Config should be
// created with NewConfig, which sets the defaults; a YAML file then only needs
// the keys it changes.
type Config struct {
	// ElectrodeArea is the working-electrode surface in cm².
	ElectrodeArea float64 `yaml:"electrodeArea"`
	DPI           int     `yaml:"dpi"`
	// OutDir prefixes every output name; empty means the working directory.
	OutDir string `yaml:"outDir"`

	Charge  ChargeConfig  `yaml:"ca"`
	Density DensityConfig `yaml:"caDensity"`
	EIS     EISConfig     `yaml:"eis"`
	LSV     LSVConfig     `yaml:"lsv"`
}

type ChargeConfig struct {
	Dir       string  `yaml:"dir"`
	Output    string  `yaml:"output"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	MarkEvery int     `yaml:"markEvery"`
}

type DensityConfig struct {
	Dir       string  `yaml:"dir"`
	Output    string  `yaml:"output"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	MarkEvery int     `yaml:"markEvery"`
}

type EISConfig struct {
	Dir             string   `yaml:"dir"`
	NyquistOutput   string   `yaml:"nyquistOutput"`
	MagnitudeOutput string   `yaml:"magnitudeOutput"`
	PhaseOutput     string   `yaml:"phaseOutput"`
	Rows            []string `yaml:"rows"`
	Cols            []string `yaml:"cols"`
	Chemicals       []string `yaml:"chemicals"`
	NyquistMax      float64  `yaml:"nyquistMax"`
	Width           float64  `yaml:"width"`
	Height          float64  `yaml:"height"`
}

type LSVConfig struct {
	Dir          string           `yaml:"dir"`
	Output       string           `yaml:"output"`
	Reference    string           `yaml:"reference"`
	Chemicals    []string         `yaml:"chemicals"`
	Styles       map[string]Style `yaml:"styles"`
	DefaultStyle Style            `yaml:"defaultStyle"`
	Width        float64          `yaml:"width"`
	Height       float64          `yaml:"height"`
}

// NewConfig creates a new Config and sets default values.
func NewConfig() *Config {
	return &Config{
		ElectrodeArea: defaultElectrodeArea,
		DPI:           defaultDPI,
		Charge: ChargeConfig{
			Dir:       "CAs/",
			Output:    "ca_final_styled.tiff",
			Width:     12,
			Height:    8,
			MarkEvery: 150,
		},
		Density: DensityConfig{
			Dir:       "CAs/",
			Output:    "ca_current_density_subplots.tiff",
			Width:     10,
			Height:    15,
			MarkEvery: 200,
		},
		EIS: EISConfig{
			Dir:             "EIS/",
			NyquistOutput:   "eis_nyquist_plots.tiff",
			MagnitudeOutput: "eis_bode1_plots.tiff",
			PhaseOutput:     "eis_bode2_plots.tiff",
			Rows:            []string{"pH 1", "pH 4", "pH 6"},
			Cols:            []string{"OCP", "CAP", "FAR"},
			Chemicals:       []string{"K2ReCl6", "KReO4", "NH4ReO4", "Cu", "KReO4 + Na2SO4"},
			NyquistMax:      200,
			Width:           15,
			Height:          15,
		},
		LSV: LSVConfig{
			Dir:       "LSV/",
			Output:    "lsv_comparison_plot.tiff",
			Reference: "LSV_Reference Cu",
			Chemicals: []string{"K2ReCl6", "KReO4", "NH4ReO4"},
			Styles: map[string]Style{
				"pH 1": {Color: "red", Marker: "o", Line: "-", MarkerSize: 4},
				"pH 4": {Color: "blue", Marker: "s", Line: "--", MarkerSize: 4},
				"pH 6": {Color: "green", Marker: "^", Line: ":", MarkerSize: 4},
			},
			DefaultStyle: Style{Color: "black", Marker: "x", Line: "-."},
			Width:        18,
			Height:       6,
		},
	}
}

func (cfg *Config) Clone() *Config {
	var cp = *cfg
	cp.EIS.Rows = append([]string(nil), cfg.EIS.Rows...)
	cp.EIS.Cols = append([]string(nil), cfg.EIS.Cols...)
	cp.EIS.Chemicals = append([]string(nil), cfg.EIS.Chemicals...)
	cp.LSV.Chemicals = append([]string(nil), cfg.LSV.Chemicals...)
	cp.LSV.Styles = make(map[string]Style, len(cfg.LSV.Styles))
	for k, v := range cfg.LSV.Styles {
		cp.LSV.Styles[k] = v
	}
	return &cp
}

// ParseConfig overlays YAML data on the defaults.
func ParseConfig(data []byte) (*Config, error) {
	var cfg = NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("echemplot: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config from any Source location.
func LoadConfig(ctx context.Context, src *Source, location string) (*Config, error) {
	var rc, err = src.fs.OpenURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("echemplot: open config: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("echemplot: read config: %w", err)
	}
	return ParseConfig(data)
}

func (cfg *Config) Validate() error {
	switch {
	case !(cfg.ElectrodeArea > 0):
		return fmt.Errorf("echemplot: electrodeArea must be positive, got %v", cfg.ElectrodeArea)
	case cfg.DPI <= 0:
		return fmt.Errorf("echemplot: dpi must be positive, got %d", cfg.DPI)
	case len(cfg.EIS.Rows) == 0 || len(cfg.EIS.Cols) == 0:
		return fmt.Errorf("echemplot: eis rows and cols must not be empty")
	case len(cfg.LSV.Chemicals) == 0:
		return fmt.Errorf("echemplot: lsv chemicals must not be empty")
	case !(cfg.EIS.NyquistMax > 0):
		return fmt.Errorf("echemplot: eis nyquistMax must be positive, got %v", cfg.EIS.NyquistMax)
	}
	for _, size := range [][2]float64{
		{cfg.Charge.Width, cfg.Charge.Height},
		{cfg.Density.Width, cfg.Density.Height},
		{cfg.EIS.Width, cfg.EIS.Height},
		{cfg.LSV.Width, cfg.LSV.Height},
	} {
		if !(size[0] > 0 && size[1] > 0) {
			return fmt.Errorf("echemplot: figure sizes must be positive, got %vx%v", size[0], size[1])
		}
	}
	return nil
}

// Output resolves an output name against OutDir.
func (cfg *Config) Output(name string) string {
	return Join(cfg.OutDir, name)
}
