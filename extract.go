package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"steerplot/dataset"
)

var extractCmd = &cobra.Command{
	Use:   "extract <input_file> <output_dir>",
	Short: "Split an array of uploaded documents into one file per participant",
	Args:  cobra.ExactArgs(2),
	RunE:  runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	docs, err := dataset.ReadDocuments(args[0])
	if err != nil {
		return err
	}
	logger.Info("loaded documents", zap.Int("documents", len(docs)))

	participants := dataset.Extract(docs)
	idx, err := dataset.WriteExtraction(participants, args[0], args[1], time.Now())
	if err != nil {
		return err
	}
	for _, e := range idx.Participants {
		logger.Info("participant written",
			zap.String("participant", e.ParticipantID),
			zap.String("file", e.Filename),
			zap.Int("sessions", e.Sessions),
			zap.Int("trials", e.Trials))
	}
	logger.Info("extraction complete",
		zap.Int("participants", idx.TotalParticipants),
		zap.String("output", args[1]))
	return nil
}
