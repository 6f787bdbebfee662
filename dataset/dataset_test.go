package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestListJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", "{}")
	writeFile(t, dir, "a.json", "{}")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, IndexFile, "{}")

	files, err := ListJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}, files)

	_, err = ListJSON(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLoadSingleExperiment(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "p07.json", `{
		"trialData": [
			{"trialId": 1, "trajectory": [{"x": 0.1, "y": 0.2}, [0.3, 0.4]], "completionTime": 2.5,
			 "condition": {"tunnelType": "curved", "curvature": 0.02, "timeLimit": null}}
		]
	}`)

	exps, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, "p07", exps[0].ParticipantID, "falls back to the file stem")

	tr := exps[0].TrialData[0]
	assert.Equal(t, 1, tr.ID(0))
	require.Len(t, tr.Trajectory, 2)
	assert.Equal(t, 0.3, tr.Trajectory[1].X)
	assert.False(t, tr.Condition.Timed())
	assert.Equal(t, 0.02, *tr.Condition.Curvature)
}

func TestLoadCombinedArray(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "all.json", `[
		{"participantId": "a", "trialData": [{"trialId": 1}]},
		{"trialData": []}
	]`)
	exps, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, exps, 2)
	assert.Equal(t, "a", exps[0].ParticipantID)
	assert.Equal(t, "unknown", exps[1].ParticipantID)
}

func TestLoadExtractedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "participant_x.json", `{
		"participantId": "x",
		"totalSessions": 2,
		"sessions": [
			{"documentId": "new", "trialData": [{"trialId": 1}, {"trialId": 2}]},
			{"documentId": "old", "trialData": [{"trialId": 1}]}
		]
	}`)
	exps, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, "x", exps[0].ParticipantID)
	assert.Len(t, exps[0].TrialData, 3)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFile(writeFile(t, dir, "bad.json", `{"trialData": [`))
	assert.Error(t, err)
	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestSafeID(t *testing.T) {
	assert.Equal(t, "abc_DEF-1", SafeID("abc_DEF-1"))
	assert.Equal(t, "a_b_c_", SafeID("a b/c."))
	assert.Equal(t, "participant_x_y.json", ParticipantFileName("x@y"))
}

const uploads = `[
	{"id": "d1", "participantId": "p1", "uploadedAt": "2025-01-01T10:00:00.000Z", "version": "2.0",
	 "trialData": [{"trialId": 1, "extra": true}], "summary": {"averageCompletionTime": 4}},
	{"id": "d2", "participantId": "p2", "experimentVersion": "1.5", "trialData": [{"trialId": 1}, {"trialId": 2}]},
	{"id": "d3", "trialData": []},
	{"id": "d4", "participantId": "p1", "uploadedAt": "2025-02-01T10:00:00.000Z",
	 "trialData": [{"trialId": 1}, {"trialId": 2}, {"trialId": 3}], "summary": {"averageCompletionTime": 2}}
]`

func TestExtract(t *testing.T) {
	var docs []Document
	require.NoError(t, json.Unmarshal([]byte(uploads), &docs))

	ps := Extract(docs)
	require.Len(t, ps, 2)

	p1 := ps[0]
	assert.Equal(t, "p1", p1.ParticipantID)
	assert.Equal(t, 2, p1.TotalSessions)
	assert.Equal(t, "d4", p1.Sessions[0].DocumentID, "most recent first")
	assert.Equal(t, "d1", p1.Sessions[1].DocumentID)
	assert.JSONEq(t, `"2.0"`, string(p1.Sessions[1].Version))
	assert.JSONEq(t, `{"trialId": 1, "extra": true}`, string(p1.Sessions[1].TrialData[0]))
	assert.Equal(t, 4, p1.AggregateSummary.TotalTrials)
	assert.Equal(t, 2.0, p1.AggregateSummary.AverageTrialsPerSession)
	assert.Equal(t, 3.0, p1.AggregateSummary.AverageCompletionTime)

	p2 := ps[1]
	assert.JSONEq(t, `"1.5"`, string(p2.Sessions[0].Version), "falls back to experimentVersion")
	assert.Zero(t, p2.AggregateSummary.AverageCompletionTime)
}

func TestWriteExtraction(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "uploads.json", uploads)
	docs, err := ReadDocuments(src)
	require.NoError(t, err)

	out := filepath.Join(dir, "participants")
	now := time.Date(2026, 1, 14, 22, 28, 33, 974_000_000, time.UTC)
	idx, err := WriteExtraction(Extract(docs), src, out, now)
	require.NoError(t, err)

	assert.Equal(t, "2026-01-14T22:28:33.974Z", idx.ExtractionDate)
	assert.Equal(t, "uploads.json", idx.SourceFile)
	assert.Equal(t, 2, idx.TotalParticipants)
	assert.Equal(t, "participant_p1.json", idx.Participants[0].Filename)
	assert.Equal(t, 4, idx.Participants[0].Trials)

	// the participant file reads back as one experiment with every session's trials
	exps, err := LoadFile(filepath.Join(out, "participant_p1.json"))
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, "p1", exps[0].ParticipantID)
	assert.Len(t, exps[0].TrialData, 4)

	files, err := ListJSON(out)
	require.NoError(t, err)
	assert.Len(t, files, 2, "index is not listed")

	_, err = ReadDocuments(writeFile(t, dir, "single.json", `{"participantId": "p"}`))
	assert.Error(t, err)
}

func TestFirestoreUploadTime(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "p1.json", `{
		"participantId": "p1",
		"uploadedAt": {"seconds": 1736848113, "nanoseconds": 974000000},
		"trialData": [{"trialId": 1, "trajectory": [[0.1, 0.2]]}]
	}`)
	exps, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Len(t, exps[0].TrialData, 1)

	var docs []Document
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": "iso", "participantId": "p", "uploadedAt": "2025-01-14T09:00:00Z"},
		{"id": "object", "participantId": "p", "uploadedAt": {"seconds": 1736848113, "nanoseconds": 0}},
		{"id": "none", "participantId": "p"}
	]`), &docs))
	ps := Extract(docs)
	require.Len(t, ps, 1)
	var order []string
	for _, s := range ps[0].Sessions {
		order = append(order, s.DocumentID)
	}
	assert.Equal(t, []string{"object", "iso", "none"}, order, "object timestamp is 2025-01-14T09:48:33Z")

	out := filepath.Join(dir, "out")
	_, err = WriteExtraction(ps, "uploads.json", out, time.Now())
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(out, "participant_p.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"seconds": 1736848113`, "upload time is written back unchanged")
}
