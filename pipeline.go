package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"steerplot/config"
	"steerplot/dataset"
	"steerplot/detect"
	"steerplot/filter"
	"steerplot/heatmap"
	"steerplot/kinematics"
	"steerplot/logging"
	"steerplot/models"
	"steerplot/render"
	"steerplot/report"
	"steerplot/tunnel"
)

const unknownCondition = "Unknown condition"

// pipeline turns loaded experiments into figures and summaries. Failures of a single file,
// trial or heatmap are logged and skipped.
type pipeline struct {
	cfg     *config.Config
	log     *zap.Logger
	render  *render.Renderer
	summary *report.Summary
}

func newPipeline(cfg *config.Config, log *zap.Logger) *pipeline {
	return &pipeline{
		cfg:     cfg,
		log:     logging.OrNop(log),
		render:  render.New(cfg),
		summary: report.New(cfg.Tunnel),
	}
}

// trialOptions controls the per-trial speed analysis.
type trialOptions struct {
	ShowDrops    bool
	Thresholds   detect.Thresholds
	FilterType   string
	FilterParams filter.Params
	// AllSamples plots every speed, zeros included, against its sample index instead of
	// only the moving samples.
	AllSamples bool
}

func (o trialOptions) filtering() bool {
	return o.FilterType != "" && o.FilterType != filter.None
}

// inputs lists the JSON files of dir. A missing directory or an empty one is logged and
// reported as no files.
func (p *pipeline) inputs(dir string) []string {
	files, err := dataset.ListJSON(dir)
	if err != nil {
		p.log.Error("input directory not found", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	if len(files) == 0 {
		p.log.Error("no JSON files found", zap.String("dir", dir))
		return nil
	}
	p.log.Info("found JSON files", zap.Int("files", len(files)))
	return files
}

// participantFiles writes per-trial figures and a summary for every participant in
// inputDir into outDir/participant_<id>.
func (p *pipeline) participantFiles(inputDir, outDir string, opts trialOptions) {
	files := p.inputs(inputDir)
	for _, f := range files {
		exps, err := dataset.LoadFile(f)
		if err != nil {
			p.log.Warn("skipping file", zap.String("file", filepath.Base(f)), zap.Error(err))
			continue
		}
		for _, e := range exps {
			dir := filepath.Join(outDir, "participant_"+e.ParticipantID)
			if err := p.participant(e, dir, opts); err != nil {
				p.log.Warn("skipping participant", zap.String("participant", e.ParticipantID), zap.Error(err))
			}
		}
	}
	if len(files) > 0 {
		p.log.Info("all participants processed", zap.String("output", outDir))
	}
}

// participant renders every trial of e into dir and writes the summary file.
func (p *pipeline) participant(e models.Experiment, dir string, opts trialOptions) error {
	log := p.log.With(zap.String("participant", e.ParticipantID))
	log.Info("processing participant", zap.Int("trials", len(e.TrialData)), zap.String("output", dir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for i, t := range e.TrialData {
		if err := p.trial(log, e.ParticipantID, t.ID(i+1), t, dir, opts); err != nil {
			log.Warn("skipping trial", zap.Int("trial", t.ID(i+1)), zap.Error(err))
		}
	}

	path, err := p.summary.WriteFile(dir, e.ParticipantID, e.TrialData)
	if err != nil {
		return err
	}
	log.Info("summary statistics saved", zap.String("file", path))
	return nil
}

func (p *pipeline) trial(log *zap.Logger, participantID string, id int, t models.Trial, dir string, opts trialOptions) error {
	log = log.With(zap.Int("trial", id))
	log.Info("processing trial", zap.String("condition", t.Condition.Label("No description")))
	if len(t.Trajectory) == 0 {
		log.Warn("no trajectory data")
		return nil
	}
	if len(t.Speeds) == 0 {
		log.Warn("no speed data, deriving from trajectory")
	}

	tn := tunnel.Build(t.Condition, p.cfg.Tunnel)
	speeds := kinematics.TrialSpeeds(t)
	values, indices := speedSeries(speeds, opts.AllSamples)

	var smoothed []float64
	if opts.filtering() && len(values) > 3 {
		f, err := filter.Apply(opts.FilterType, values, opts.FilterParams)
		if err != nil {
			log.Warn("filter failed, using raw speeds", zap.String("filter", opts.FilterType), zap.Error(err))
		} else {
			smoothed = f
		}
	}

	var drops, peaks []int
	if opts.ShowDrops && len(values) > 0 {
		series := values
		if smoothed != nil {
			series = smoothed
		}
		found := detect.DetectSpeedDrops(series, opts.Thresholds, log)
		drops = detect.MapIndices(found.Valleys(), indices)
		peaks = detect.MapIndices(found.PeakIndices(), indices)
	}

	prefix := fmt.Sprintf("trial_%d_%s", id, participantID)
	excursions := t.ExcursionPositions()
	err := p.render.Trajectory(filepath.Join(dir, "trajectory_"+prefix+".png"), render.TrajectoryPlot{
		Title:      fmt.Sprintf("Trial %d: %s", id, t.Condition.Label(unknownCondition)),
		Points:     t.Trajectory,
		Tunnel:     &tn,
		Excursions: excursions,
		Drops:      drops,
		Peaks:      peaks,
	})
	if err != nil {
		return fmt.Errorf("trajectory plot: %w", err)
	}

	if len(speeds) > 0 {
		err = p.render.Speed(filepath.Join(dir, "speed_"+prefix+".png"), render.SpeedPlot{
			Title:    fmt.Sprintf("Speed Profile - Trial %d", id),
			Values:   values,
			Indices:  indices,
			Filtered: smoothed,
			Drops:    drops,
			Peaks:    peaks,
		})
		if err != nil {
			return fmt.Errorf("speed plot: %w", err)
		}
	}

	m := kinematics.ComputeMetrics(t)
	log.Info("trial done",
		zap.Float64("completion_time", t.CompletionTime),
		zap.Int("excursions", len(excursions)),
		zap.Int("drops", len(drops)),
		zap.Float64("path_length", m.PathLength),
		zap.Float64("peak_speed", m.PeakSpeed))
	return nil
}

// speedSeries returns the speeds to plot with their sample indices: the moving samples
// only, or every sample when all is set.
func speedSeries(speeds []float64, all bool) ([]float64, []int) {
	if !all {
		return detect.NonZero(speeds)
	}
	indices := make([]int, len(speeds))
	for i := range indices {
		indices[i] = i
	}
	return speeds, indices
}

// loadAll reads every participant file in dir, skipping unreadable ones.
func (p *pipeline) loadAll(dir string) []models.Experiment {
	var exps []models.Experiment
	for _, f := range p.inputs(dir) {
		loaded, err := dataset.LoadFile(f)
		if err != nil {
			p.log.Warn("error loading file", zap.String("file", filepath.Base(f)), zap.Error(err))
			continue
		}
		for _, e := range loaded {
			p.log.Info("loaded participant", zap.String("participant", e.ParticipantID))
		}
		exps = append(exps, loaded...)
	}
	return exps
}

// heatmaps renders the three heatmaps of every trial id found in exps, at most
// cfg.Workers trials at a time.
func (p *pipeline) heatmaps(ctx context.Context, exps []models.Experiment, outDir string) error {
	if len(exps) == 0 {
		p.log.Error("no valid participant data found")
		return nil
	}
	ids := heatmap.TrialIDs(exps)
	p.log.Info("found unique trials", zap.Ints("trials", ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Workers, 1))
	for _, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.trialHeatmaps(exps, id, outDir); err != nil {
				p.log.Warn("error processing trial", zap.Int("trial", id), zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	p.log.Info("heatmap analysis complete", zap.String("output", outDir))
	return nil
}

func (p *pipeline) trialHeatmaps(exps []models.Experiment, id int, outDir string) error {
	set, ok := heatmap.Collect(exps, id)
	if !ok {
		p.log.Info("no data found for trial", zap.Int("trial", id))
		return nil
	}
	p.log.Info("processing trial heatmaps", zap.Int("trial", id), zap.Int("participants", set.Participants()))

	tn := tunnel.Build(set.Condition, p.cfg.Tunnel)
	dir := filepath.Join(outDir, fmt.Sprintf("trial_%d", id))
	title := fmt.Sprintf("Trial %d: %s", id, set.Condition.Label(unknownCondition))

	grid, n := heatmap.Overlap(set.Trajectories, p.cfg.Environment, p.cfg.Heatmap)
	mean := kinematics.MeanPath(set.Trajectories, p.cfg.Heatmap.MeanPathSamples)
	if err := p.render.Overlap(filepath.Join(dir, fmt.Sprintf("trajectory_heatmap_trial_%d.png", id)),
		title+" - Trajectory Overlap", grid, n, tn, mean); err != nil {
		return fmt.Errorf("overlap heatmap: %w", err)
	}

	segments := heatmap.Frequency(set.Trajectories, set.Accelerations, tn, p.cfg.Heatmap)
	if err := p.render.Frequency(filepath.Join(dir, fmt.Sprintf("acceleration_frequency_heatmap_trial_%d.png", id)),
		title+" - Acceleration/Deceleration Frequency", segments, n, tn); err != nil {
		return fmt.Errorf("frequency heatmap: %w", err)
	}

	mag := heatmap.Magnitude(set.Trajectories, set.Accelerations, tn, p.cfg.Environment, p.cfg.Heatmap)
	if err := p.render.Magnitude(filepath.Join(dir, fmt.Sprintf("acceleration_magnitude_heatmap_trial_%d.png", id)),
		title+" - Acceleration/Deceleration Magnitude", mag, n, tn); err != nil {
		return fmt.Errorf("magnitude heatmap: %w", err)
	}

	p.log.Info("heatmaps saved", zap.Int("trial", id), zap.String("dir", dir))
	return nil
}
