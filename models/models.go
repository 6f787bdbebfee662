package models

import "strings"

// Tunnel kinds recorded in Condition.TunnelType.
const (
	TunnelCurved     = "curved"
	TunnelSequential = "sequential"
	TunnelCorner     = "corner"
)

// Condition holds the experimental condition a trial was run under, as recorded by the
// experiment front end. Only the fields the analysis reads are decoded.
type Condition struct {
	ID          int    `json:"id"`
	TunnelType  string `json:"tunnelType,omitempty"`
	Description string `json:"description,omitempty"`

	TunnelWidth *float64 `json:"tunnelWidth,omitempty"`
	Curvature   *float64 `json:"curvature,omitempty"`

	SegmentType       string  `json:"segmentType,omitempty"`
	Segment1Width     float64 `json:"segment1Width,omitempty"`
	Segment2Width     float64 `json:"segment2Width,omitempty"`
	Segment1Curvature float64 `json:"segment1Curvature,omitempty"`
	Segment2Curvature float64 `json:"segment2Curvature,omitempty"`

	NumCorners   int     `json:"numCorners,omitempty"`
	CornerOffset float64 `json:"cornerOffset,omitempty"`

	// TimeLimit is nil for basic (unconstrained) trials.
	TimeLimit *float64 `json:"timeLimit"`
}

// Kind normalizes TunnelType. Anything that is not sequential or corner is drawn as a
// curved tunnel.
func (c Condition) Kind() string {
	switch strings.ToLower(c.TunnelType) {
	case TunnelSequential:
		return TunnelSequential
	case TunnelCorner:
		return TunnelCorner
	default:
		return TunnelCurved
	}
}

// Timed reports whether the trial ran under a time limit.
func (c Condition) Timed() bool {
	return c.TimeLimit != nil
}

// Label returns the description or the given fallback.
func (c Condition) Label(fallback string) string {
	if c.Description == "" {
		return fallback
	}
	return c.Description
}

// Excursion is a sample that left the tunnel during a trial.
type Excursion struct {
	TimeIndex       int     `json:"timeIndex"`
	Position        *Point  `json:"position,omitempty"`
	DistanceOutside float64 `json:"distanceOutside"`
	Timestamp       float64 `json:"timestamp"`
}

// Trial is one recorded steering trial.
type Trial struct {
	TrialID    *int        `json:"trialId,omitempty"`
	Condition  Condition   `json:"condition"`
	Trajectory []Point     `json:"trajectory"`
	Speeds     []float64   `json:"speeds"`
	Timestamps []float64   `json:"timestamps"` // epoch milliseconds
	Excursions []Excursion `json:"excursions"`
	Success    bool        `json:"success"`
	StartTime  float64     `json:"startTime"`
	EndTime    float64     `json:"endTime"`

	CompletionTime        float64  `json:"completionTime"` // seconds
	BoundaryViolationRate *float64 `json:"boundaryViolationRate,omitempty"`
	FailedDueToTimeout    bool     `json:"failedDueToTimeout"`
}

// ID returns the recorded trial id or the 1-based fallback position.
func (t Trial) ID(fallback int) int {
	if t.TrialID != nil {
		return *t.TrialID
	}
	return fallback
}

// ExcursionPositions returns the positions of all excursions that carry one.
func (t Trial) ExcursionPositions() []Point {
	out := make([]Point, 0, len(t.Excursions))
	for _, e := range t.Excursions {
		if e.Position != nil {
			out = append(out, *e.Position)
		}
	}
	return out
}

// Summary is the per-session summary written by the experiment front end.
type Summary struct {
	TotalTrials                  int     `json:"totalTrials"`
	AverageCompletionTime        float64 `json:"averageCompletionTime"`
	AverageBoundaryViolationRate float64 `json:"averageBoundaryViolationRate,omitempty"`
	TimeoutFailures              int     `json:"timeoutFailures,omitempty"`
}

// Experiment is one uploaded experiment document (one participant session). Pass-through
// metadata such as prolificData is not decoded.
type Experiment struct {
	ID            string    `json:"id,omitempty"`
	ParticipantID string    `json:"participantId"`
	UploadedAt    Timestamp `json:"uploadedAt,omitzero"`
	TrialData     []Trial   `json:"trialData"`
	Summary       *Summary  `json:"summary,omitempty"`

	// Sessions is set on files written by the extract command.
	Sessions []Session `json:"sessions,omitempty"`
}

// Session is one uploaded document inside an extracted participant file.
type Session struct {
	DocumentID string    `json:"documentId,omitempty"`
	UploadedAt Timestamp `json:"uploadedAt,omitzero"`
	TrialData  []Trial   `json:"trialData"`
	Summary    *Summary  `json:"summary,omitempty"`
}

// AggregateSummary summarizes all sessions of a participant.
type AggregateSummary struct {
	TotalSessions           int     `json:"totalSessions"`
	TotalTrials             int     `json:"totalTrials"`
	AverageTrialsPerSession float64 `json:"averageTrialsPerSession"`
	AverageCompletionTime   float64 `json:"averageCompletionTime"`
}

// IndexEntry describes one written participant file.
type IndexEntry struct {
	ParticipantID string `json:"participantId"`
	Filename      string `json:"filename"`
	Sessions      int    `json:"sessions"`
	Trials        int    `json:"trials"`
}

// ParticipantIndex lists all participant files of an extraction run.
type ParticipantIndex struct {
	ExtractionDate    string       `json:"extractionDate"`
	SourceFile        string       `json:"sourceFile"`
	TotalParticipants int          `json:"totalParticipants"`
	Participants      []IndexEntry `json:"participants"`
}
