package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"steerplot/detect"
	"steerplot/filter"
)

var (
	showConnections bool
	dropRatio       float64
	dropDuration    int
	filterType      string
	filterParams    string
	debugDrops      bool
)

var trajectoriesCmd = &cobra.Command{
	Use:   "trajectories <input_dir> <output_dir>",
	Short: "Plot trajectories, speed profiles and summaries for every participant",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrajectories,
}

func init() {
	f := trajectoriesCmd.Flags()
	f.BoolVar(&showConnections, "show-connections", false, "Mark speed drops and peaks on the trajectory and speed plots")
	f.Float64Var(&dropRatio, "drop-ratio", 0.3, "Minimum speed drop ratio to be considered significant (0-1)")
	f.IntVar(&dropDuration, "drop-duration", 3, "Minimum duration of a speed drop in time steps")
	f.StringVar(&filterType, "filter-type", filter.None, "Noise filter for speed profiles ("+strings.Join(filter.Kinds, ", ")+")")
	f.StringVar(&filterParams, "filter-params", "", `Filter parameters as key=value pairs (e.g. "window_length=15,sigma=2.0")`)
	f.BoolVar(&debugDrops, "debug-drops", false, "Log every speed drop decision")
}

// trajectoryOptions merges the config with the flags set on cmd.
func trajectoryOptions(cmd *cobra.Command) (trialOptions, error) {
	drops := cfg.Drops
	flags := cmd.Flags()
	if flags.Changed("show-connections") {
		drops.ShowConnections = showConnections
	}
	if flags.Changed("drop-ratio") {
		drops.MinRatio = dropRatio
	}
	if flags.Changed("drop-duration") {
		drops.MinDuration = dropDuration
	}

	opts := trialOptions{
		ShowDrops:    drops.ShowConnections,
		Thresholds:   detect.ThresholdsFrom(drops),
		FilterType:   cfg.Filter.Type,
		FilterParams: filter.Params(cfg.Filter.Params),
	}
	if flags.Changed("filter-type") {
		opts.FilterType = filterType
	}
	if flags.Changed("filter-params") {
		opts.FilterParams = filter.ParseParams(filterParams)
	}

	if !filter.Valid(opts.FilterType) {
		return opts, fmt.Errorf("unknown filter type %q (want one of %s)", opts.FilterType, strings.Join(filter.Kinds, ", "))
	}
	if opts.Thresholds.MinRatio < 0 || opts.Thresholds.MinRatio > 1 {
		return opts, fmt.Errorf("drop ratio must be within [0, 1], got %g", opts.Thresholds.MinRatio)
	}
	if opts.Thresholds.MinDuration < 1 {
		return opts, fmt.Errorf("drop duration must be at least 1, got %d", opts.Thresholds.MinDuration)
	}
	return opts, nil
}

func runTrajectories(cmd *cobra.Command, args []string) error {
	opts, err := trajectoryOptions(cmd)
	if err != nil {
		return err
	}
	inputDir, outDir := args[0], args[1]
	logger.Info("processing participants",
		zap.String("input", inputDir),
		zap.String("output", outDir),
		zap.Bool("show_connections", opts.ShowDrops),
		zap.String("filter", opts.FilterType),
		zap.Stringer("filter_params", opts.FilterParams))

	newPipeline(cfg, logger).participantFiles(inputDir, outDir, opts)
	return nil
}
