package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"steerplot/config"
	"steerplot/logging"
)

var (
	configPath string
	verbose    bool
	dpi        int

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "steerplot",
	Short: "Plot and summarize cursor steering experiment data",
	Long: `steerplot reads the JSON uploads of the tunnel steering experiment and writes
trajectory plots, speed profiles, cross-participant heatmaps and summary statistics.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (defaults are used when empty or missing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&dpi, "dpi", 0, "Image resolution (overrides the config)")

	rootCmd.AddCommand(trajectoriesCmd, heatmapsCmd, analyzeCmd, extractCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dpi") {
		c.Render.DPI = dpi
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c

	l, err := logging.New(verbose || debugDrops)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
