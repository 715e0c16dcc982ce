package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.3.0"

var (
	// Global flags
	verbose     bool
	configPath  string
	outDir      string
	backend     string
	registryDSN string
	dpi         int

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "echemplot",
	Short: "Charts for chronoamperometry, impedance and linear sweep exports",
	Long: `echemplot reads the tab or semicolon separated exports of a potentiostat,
groups them by their file names and renders multi-panel charts.

Each chart job reads its own directory (see --config):
  ca          charge vs. time of every run on one chart (CAs/)
  ca-density  current density vs. time, one panel per pH (CAs/)
  eis         Nyquist and Bode grids by pH and condition (EIS/)
  lsv         current density vs. potential, one panel per chemical (LSV/)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "echemplot %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out-dir", "o", "", "Directory or URL for the rendered charts")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "gonum", "Renderer: gonum, or gnuplot in builds with -tags gnuplot")
	rootCmd.PersistentFlags().StringVar(&registryDSN, "registry", "", "MySQL DSN of the run registry (disabled when empty)")
	rootCmd.PersistentFlags().IntVar(&dpi, "dpi", 0, "Raster resolution, overrides the config")

	for _, name := range jobNames {
		rootCmd.AddCommand(newJobCmd(name))
	}
	rootCmd.AddCommand(allCmd, watchCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
