package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"steerplot/models"
)

// Document is one uploaded experiment document. Fields the extraction only passes through
// are kept raw so nothing recorded is lost.
type Document struct {
	ID            string            `json:"id,omitempty"`
	ParticipantID string            `json:"participantId"`
	UploadedAt    models.Timestamp  `json:"uploadedAt,omitzero"`
	Version       json.RawMessage   `json:"version,omitempty"`
	ExpVersion    json.RawMessage   `json:"experimentVersion,omitempty"`
	ProlificData  json.RawMessage   `json:"prolificData,omitempty"`
	TrialData     []json.RawMessage `json:"trialData,omitempty"`
	Summary       json.RawMessage   `json:"summary,omitempty"`
	CompletedAt   json.RawMessage   `json:"completedAt,omitempty"`
}

// Session is one document as stored in a participant file.
type Session struct {
	DocumentID   string            `json:"documentId,omitempty"`
	UploadedAt   models.Timestamp  `json:"uploadedAt,omitzero"`
	Version      json.RawMessage   `json:"version,omitempty"`
	ProlificData json.RawMessage   `json:"prolificData,omitempty"`
	TrialData    []json.RawMessage `json:"trialData"`
	Summary      json.RawMessage   `json:"summary,omitempty"`
	CompletedAt  json.RawMessage   `json:"completedAt,omitempty"`
}

// Participant is the content of one participant_<id>.json file.
type Participant struct {
	ParticipantID    string                  `json:"participantId"`
	TotalSessions    int                     `json:"totalSessions"`
	Sessions         []Session               `json:"sessions"`
	AggregateSummary models.AggregateSummary `json:"aggregateSummary"`
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SafeID replaces every character outside [A-Za-z0-9_-] with an underscore.
func SafeID(id string) string {
	return unsafeChars.ReplaceAllString(id, "_")
}

// ParticipantFileName returns the file name Extract writes for a participant.
func ParticipantFileName(id string) string {
	return fmt.Sprintf("participant_%s.json", SafeID(id))
}

// Extract groups documents by participant in order of first appearance. Documents without a
// participant id are dropped. Each participant's sessions are ordered most recent upload
// first; documents without a parseable upload time sort last.
func Extract(docs []Document) []Participant {
	var order []string
	groups := make(map[string][]Document)
	for _, d := range docs {
		if d.ParticipantID == "" {
			continue
		}
		if _, ok := groups[d.ParticipantID]; !ok {
			order = append(order, d.ParticipantID)
		}
		groups[d.ParticipantID] = append(groups[d.ParticipantID], d)
	}

	out := make([]Participant, 0, len(order))
	for _, id := range order {
		ds := groups[id]
		sort.SliceStable(ds, func(i, j int) bool { return uploadMillis(ds[i]) > uploadMillis(ds[j]) })

		p := Participant{ParticipantID: id, TotalSessions: len(ds)}
		avgTimes := make([]float64, len(ds))
		for i, d := range ds {
			p.Sessions = append(p.Sessions, Session{
				DocumentID:   d.ID,
				UploadedAt:   d.UploadedAt,
				Version:      firstSet(d.Version, d.ExpVersion),
				ProlificData: d.ProlificData,
				TrialData:    d.TrialData,
				Summary:      d.Summary,
				CompletedAt:  d.CompletedAt,
			})
			p.AggregateSummary.TotalTrials += len(d.TrialData)
			avgTimes[i] = sessionAverage(d.Summary)
		}
		p.AggregateSummary.TotalSessions = len(ds)
		p.AggregateSummary.AverageTrialsPerSession = float64(p.AggregateSummary.TotalTrials) / float64(len(ds))
		if m, err := stats.Mean(avgTimes); err == nil {
			p.AggregateSummary.AverageCompletionTime = m
		}
		out = append(out, p)
	}
	return out
}

func uploadMillis(d Document) int64 {
	t, ok := d.UploadedAt.Time()
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

// firstSet returns the first value that is present and truthy.
func firstSet(vals ...json.RawMessage) json.RawMessage {
	for _, v := range vals {
		switch string(v) {
		case "", "null", "false", "0", `""`:
			continue
		}
		return v
	}
	return nil
}

func sessionAverage(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var s models.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	return s.AverageCompletionTime
}

// ReadDocuments loads the uploaded documents array from path.
func ReadDocuments(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !isArray(data) {
		return nil, fmt.Errorf("%s must contain an array of documents", path)
	}
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return docs, nil
}

// WriteExtraction writes one file per participant plus the index into outDir and returns
// the index.
func WriteExtraction(participants []Participant, sourceFile, outDir string, now time.Time) (models.ParticipantIndex, error) {
	idx := models.ParticipantIndex{
		ExtractionDate:    now.UTC().Format("2006-01-02T15:04:05.000Z"),
		SourceFile:        filepath.Base(sourceFile),
		TotalParticipants: len(participants),
		Participants:      []models.IndexEntry{},
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return idx, fmt.Errorf("create output directory: %w", err)
	}
	for _, p := range participants {
		name := ParticipantFileName(p.ParticipantID)
		if err := writeJSON(filepath.Join(outDir, name), p); err != nil {
			return idx, err
		}
		idx.Participants = append(idx.Participants, models.IndexEntry{
			ParticipantID: p.ParticipantID,
			Filename:      name,
			Sessions:      p.TotalSessions,
			Trials:        p.AggregateSummary.TotalTrials,
		})
	}
	if err := writeJSON(filepath.Join(outDir, IndexFile), idx); err != nil {
		return idx, err
	}
	return idx, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
