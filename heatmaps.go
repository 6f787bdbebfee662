package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var workers int

var heatmapsCmd = &cobra.Command{
	Use:   "heatmaps <input_dir> <output_dir>",
	Short: "Render cross-participant trajectory and acceleration heatmaps per trial",
	Args:  cobra.ExactArgs(2),
	RunE:  runHeatmaps,
}

func init() {
	heatmapsCmd.Flags().IntVar(&workers, "workers", 0, "Trials rendered concurrently (overrides the config)")
}

func runHeatmaps(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("workers") {
		cfg.Workers = max(workers, 1)
	}
	inputDir, outDir := args[0], args[1]
	logger.Info("building heatmaps",
		zap.String("input", inputDir),
		zap.String("output", outDir),
		zap.Int("workers", cfg.Workers))

	p := newPipeline(cfg, logger)
	return p.heatmaps(cmd.Context(), p.loadAll(inputDir), outDir)
}
