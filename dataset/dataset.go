package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"steerplot/models"
)

// IndexFile is the index written by Extract; it is not a participant file.
const IndexFile = "participants_index.json"

// ListJSON returns the sorted *.json files of dir, leaving out the extraction index.
func ListJSON(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", dir)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	out := matches[:0]
	for _, m := range matches {
		if filepath.Base(m) != IndexFile {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// LoadFile reads a participant file. A top-level array is a combined export holding one
// experiment per element; an object is a single experiment or an extracted participant
// file, whose sessions are flattened into one trial list (most recent session first).
// A single experiment without participantId takes the file stem.
func LoadFile(path string) ([]models.Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	exps, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(exps) == 1 && exps[0].ParticipantID == "" && !isArray(data) {
		exps[0].ParticipantID = Stem(path)
	}
	return exps, nil
}

// Decode parses experiment JSON (object or array). Array elements without a participant id
// are labelled "unknown".
func Decode(data []byte) ([]models.Experiment, error) {
	var exps []models.Experiment
	if isArray(data) {
		if err := json.Unmarshal(data, &exps); err != nil {
			return nil, err
		}
		for i := range exps {
			if exps[i].ParticipantID == "" {
				exps[i].ParticipantID = "unknown"
			}
		}
	} else {
		var e models.Experiment
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		exps = []models.Experiment{e}
	}
	for i := range exps {
		flatten(&exps[i])
	}
	return exps, nil
}

func isArray(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func flatten(e *models.Experiment) {
	if len(e.TrialData) > 0 || len(e.Sessions) == 0 {
		return
	}
	for _, s := range e.Sessions {
		e.TrialData = append(e.TrialData, s.TrialData...)
	}
}
