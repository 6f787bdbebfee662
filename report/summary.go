package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"steerplot/config"
	"steerplot/models"
	"steerplot/tunnel"
)

// Summary writes the per-participant summary_stats text file.
type Summary struct {
	Tunnel config.TunnelConfig
	Now    func() time.Time
}

// New returns a Summary using the wall clock.
func New(cfg config.TunnelConfig) *Summary {
	return &Summary{Tunnel: cfg, Now: time.Now}
}

// FileName returns the summary file name for a participant.
func FileName(participantID string) string {
	return fmt.Sprintf("summary_stats_%s.txt", participantID)
}

// WriteFile writes the summary into dir and returns its path.
func (s *Summary) WriteFile(dir, participantID string, trials []models.Trial) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create summary directory: %w", err)
	}
	path := filepath.Join(dir, FileName(participantID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create summary: %w", err)
	}
	if err := s.Write(f, participantID, trials); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// Write renders the summary text.
func (s *Summary) Write(w io.Writer, participantID string, trials []models.Trial) error {
	var basic, timed, curved, sequential []models.Trial
	var basicCurved, basicSeq, timedCurved, timedSeq int
	for _, t := range trials {
		isCurved := t.Condition.TunnelType == "" || t.Condition.TunnelType == models.TunnelCurved
		isSeq := t.Condition.TunnelType == models.TunnelSequential
		if isCurved {
			curved = append(curved, t)
		}
		if isSeq {
			sequential = append(sequential, t)
		}
		if t.Condition.Timed() {
			timed = append(timed, t)
			if isCurved {
				timedCurved++
			}
			if isSeq {
				timedSeq++
			}
		} else {
			basic = append(basic, t)
			if isCurved {
				basicCurved++
			}
			if isSeq {
				basicSeq++
			}
		}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "Steering Experiment Analysis Summary\n")
	fmt.Fprintf(b, "Participant: %s\n", participantID)
	fmt.Fprintf(b, "Analysis Date: %s\n", now().Format("2006-01-02T15:04:05"))
	fmt.Fprintf(b, "%s\n\n", strings.Repeat("=", 50))

	fmt.Fprintf(b, "Total Trials: %d\n", len(trials))
	fmt.Fprintf(b, "Basic Trials: %d\n", len(basic))
	fmt.Fprintf(b, "  - Curved Tunnels: %d\n", basicCurved)
	fmt.Fprintf(b, "  - Sequential Tunnels: %d\n", basicSeq)
	fmt.Fprintf(b, "Time-Constrained Trials: %d\n", len(timed))
	fmt.Fprintf(b, "  - Curved Tunnels: %d\n", timedCurved)
	fmt.Fprintf(b, "  - Sequential Tunnels: %d\n\n", timedSeq)

	if len(trials) > 0 {
		fmt.Fprintf(b, "Overall Statistics:\n")
		fmt.Fprintf(b, "  Average completion time: %.2fs\n", meanTime(trials))
		if rates := s.violationRates(trials); len(rates) > 0 {
			avg, _ := stats.Mean(rates)
			fmt.Fprintf(b, "  Average boundary violation rate: %.1f%%\n", avg*100)
		}
		fmt.Fprintln(b)
	}
	if len(basic) > 0 {
		fmt.Fprintf(b, "Basic Trials Statistics:\n")
		fmt.Fprintf(b, "  Average completion time: %.2fs\n\n", meanTime(basic))
	}
	if len(timed) > 0 {
		failures := 0
		for _, t := range timed {
			if t.FailedDueToTimeout {
				failures++
			}
		}
		fmt.Fprintf(b, "Time-Constrained Trials Statistics:\n")
		fmt.Fprintf(b, "  Average completion time: %.2fs\n", meanTime(timed))
		fmt.Fprintf(b, "  Timeout failures: %d\n\n", failures)
	}
	if len(curved) > 0 {
		fmt.Fprintf(b, "Curved Tunnel Statistics:\n")
		fmt.Fprintf(b, "  Average completion time: %.2fs\n\n", meanTime(curved))
	}
	if len(sequential) > 0 {
		fmt.Fprintf(b, "Sequential Tunnel Statistics:\n")
		fmt.Fprintf(b, "  Average completion time: %.2fs\n\n", meanTime(sequential))
	}

	fmt.Fprintf(b, "Individual Trial Details:\n")
	fmt.Fprintf(b, "%s\n", strings.Repeat("-", 30))
	for _, t := range trials {
		id := "Unknown"
		if t.TrialID != nil {
			id = fmt.Sprint(*t.TrialID)
		}
		fmt.Fprintf(b, "Trial %s: %s\n", id, t.Condition.Label("No description"))
		fmt.Fprintf(b, "  Time: %.2fs\n", t.CompletionTime)
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func meanTime(trials []models.Trial) float64 {
	times := make([]float64, len(trials))
	for i, t := range trials {
		times[i] = t.CompletionTime
	}
	m, err := stats.Mean(times)
	if err != nil {
		return 0
	}
	return m
}

// violationRates returns each trial's boundary violation rate, taking the recorded value
// when present and otherwise measuring the trajectory against its tunnel.
func (s *Summary) violationRates(trials []models.Trial) []float64 {
	var rates []float64
	for _, t := range trials {
		switch {
		case t.BoundaryViolationRate != nil:
			rates = append(rates, *t.BoundaryViolationRate)
		case len(t.Trajectory) > 0:
			rates = append(rates, tunnel.Build(t.Condition, s.Tunnel).ViolationRate(t.Trajectory))
		}
	}
	return rates
}
