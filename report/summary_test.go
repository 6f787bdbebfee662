package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steerplot/config"
	"steerplot/models"
)

func ptr[T any](v T) *T { return &v }

func fixedSummary() *Summary {
	s := New(config.DefaultConfig().Tunnel)
	s.Now = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) }
	return s
}

func sampleTrials() []models.Trial {
	return []models.Trial{
		{
			TrialID:               ptr(1),
			Condition:             models.Condition{Description: "Easy"},
			CompletionTime:        2.0,
			BoundaryViolationRate: ptr(0.1),
		},
		{
			TrialID:               ptr(2),
			Condition:             models.Condition{TunnelType: "sequential", Description: "Two widths", TimeLimit: ptr(5.0)},
			CompletionTime:        4.0,
			FailedDueToTimeout:    true,
			BoundaryViolationRate: ptr(0.3),
		},
		{
			Condition:      models.Condition{TunnelType: "corner", TimeLimit: ptr(5.0)},
			CompletionTime: 3.0,
		},
	}
}

const wantSummary = `Steering Experiment Analysis Summary
Participant: p01
Analysis Date: 2025-03-14T09:26:53
==================================================

Total Trials: 3
Basic Trials: 1
  - Curved Tunnels: 1
  - Sequential Tunnels: 0
Time-Constrained Trials: 2
  - Curved Tunnels: 0
  - Sequential Tunnels: 1

Overall Statistics:
  Average completion time: 3.00s
  Average boundary violation rate: 20.0%

Basic Trials Statistics:
  Average completion time: 2.00s

Time-Constrained Trials Statistics:
  Average completion time: 3.50s
  Timeout failures: 1

Curved Tunnel Statistics:
  Average completion time: 2.00s

Sequential Tunnel Statistics:
  Average completion time: 4.00s

Individual Trial Details:
------------------------------
Trial 1: Easy
  Time: 2.00s
Trial 2: Two widths
  Time: 4.00s
Trial Unknown: No description
  Time: 3.00s
`

func TestWrite(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, fixedSummary().Write(&sb, "p01", sampleTrials()))
	assert.Equal(t, wantSummary, sb.String())
}

func TestWriteEmpty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, fixedSummary().Write(&sb, "p02", nil))
	out := sb.String()
	assert.Contains(t, out, "Total Trials: 0\n")
	assert.NotContains(t, out, "Overall Statistics")
	assert.True(t, strings.HasSuffix(out, "Individual Trial Details:\n"+strings.Repeat("-", 30)+"\n"))
}

func TestViolationRateRecomputed(t *testing.T) {
	s := fixedSummary()
	tr := models.Trial{
		Trajectory: []models.Point{{X: 0.1, Y: 0.13}, {X: 0.2, Y: 0.25}},
		Condition:  models.Condition{Curvature: ptr(0.0)},
	}
	rates := s.violationRates([]models.Trial{tr, {}})
	require.Len(t, rates, 1)
	assert.InDelta(t, 0.5, rates[0], 1e-12)
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "participant_p01")
	path, err := fixedSummary().WriteFile(dir, "p01", sampleTrials())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "summary_stats_p01.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, wantSummary, string(data))
}
