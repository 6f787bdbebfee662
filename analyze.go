package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"steerplot/dataset"
)

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <json_file>",
	Short: "Plot trajectories, speed profiles and a summary for a single data file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output-dir", "o", "", "Output directory (default: plots/ next to the JSON file)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	file := args[0]
	outDir := analyzeOutput
	if outDir == "" {
		outDir = filepath.Join(filepath.Dir(file), "plots")
	}
	return analyzeFile(newPipeline(cfg, logger), file, outDir)
}

// analyzeFile writes every experiment of file into outDir with the y axis growing upwards,
// every speed sample plotted and no drop markers.
func analyzeFile(p *pipeline, file, outDir string) error {
	exps, err := dataset.LoadFile(file)
	if err != nil {
		return err
	}
	r := *p.render
	r.InvertY = false
	p.render = &r

	for _, e := range exps {
		if err := p.participant(e, outDir, trialOptions{AllSamples: true}); err != nil {
			return fmt.Errorf("participant %s: %w", e.ParticipantID, err)
		}
	}
	return nil
}
