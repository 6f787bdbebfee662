package heatmap

import (
	"sort"

	"steerplot/kinematics"
	"steerplot/models"
)

// TrialSet gathers one trial across participants.
type TrialSet struct {
	TrialID       int
	Condition     models.Condition // from the first participant with data
	Trajectories  [][]models.Point
	Accelerations [][]float64
}

// Participants returns the number of contributing trajectories.
func (s TrialSet) Participants() int { return len(s.Trajectories) }

// TrialIDs returns the sorted set of trial ids present in any experiment.
func TrialIDs(exps []models.Experiment) []int {
	seen := make(map[int]struct{})
	for _, e := range exps {
		for _, t := range e.TrialData {
			if t.TrialID != nil {
				seen[*t.TrialID] = struct{}{}
			}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Collect takes the first trial with the given id from every experiment that recorded a
// trajectory for it. ok is false when no participant has data.
func Collect(exps []models.Experiment, trialID int) (set TrialSet, ok bool) {
	set.TrialID = trialID
	for _, e := range exps {
		var trial *models.Trial
		for i := range e.TrialData {
			if id := e.TrialData[i].TrialID; id != nil && *id == trialID {
				trial = &e.TrialData[i]
				break
			}
		}
		if trial == nil || len(trial.Trajectory) == 0 {
			continue
		}
		if !ok {
			set.Condition = trial.Condition
			ok = true
		}
		set.Trajectories = append(set.Trajectories, trial.Trajectory)
		set.Accelerations = append(set.Accelerations, kinematics.Accelerations(*trial))
	}
	return set, ok
}
