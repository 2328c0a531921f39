package store

import (
	"time"

	"practicelog/internal/catalog"
	"practicelog/internal/models/db_models"
	"practicelog/internal/models/response_models"
)

// Every function here is a pure transition from one state to the next given
// a completed gateway result. They never mutate their input.

func withAthletes(s State, athletes []db_models.Athlete) State {
	s = s.clone()
	s.Athletes = append([]db_models.Athlete{}, athletes...)
	if len(athletes) == 0 {
		s.Phase = PhaseNeedsAthlete
		s.CurrentAthleteID = ""
		s.Practices = []response_models.Practice{}
		s.Goals = emptyGoals()
		s.DrillFrequency = nil
	}
	return s
}

func withCurrentAthlete(s State, athleteID string) State {
	s = s.clone()
	s.CurrentAthleteID = athleteID
	s.Phase = PhaseReady
	return s
}

func withPractices(s State, rows []db_models.PracticeSession) State {
	s = s.clone()
	s.Practices = make([]response_models.Practice, 0, len(rows))
	for _, row := range rows {
		s.Practices = append(s.Practices, response_models.PracticeFromRow(row))
	}
	return s
}

// withGoals keeps the newest active goal per skill when the backend holds more
// than one.
func withGoals(s State, rows []db_models.Goal) State {
	s = s.clone()
	s.Goals = emptyGoals()
	newest := map[string]time.Time{}
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		if _, known := s.Goals[row.Skill]; !known {
			continue
		}
		if prev, seen := newest[row.Skill]; seen && !row.CreatedAt.After(prev) {
			continue
		}
		newest[row.Skill] = row.CreatedAt
		s.Goals[row.Skill] = &response_models.Goal{ID: row.ID, Text: row.GoalText, IsActive: true}
	}
	return s
}

func withDrillFrequency(s State, rows []db_models.DrillFrequency) State {
	s = s.clone()
	s.DrillFrequency = append([]db_models.DrillFrequency{}, rows...)
	return s
}

func withoutDrillFrequency(s State) State {
	s = s.clone()
	s.DrillFrequency = nil
	return s
}

func withLoggedPractice(s State, row db_models.PracticeSession, now time.Time) State {
	s = s.clone()
	s.Practices = append([]response_models.Practice{response_models.PracticeFromRow(row)}, s.Practices...)
	s.Form = DefaultForm(now)
	return s
}

func withGoalRemoved(s State, skill catalog.FocusArea) State {
	s = s.clone()
	s.Goals[string(skill)] = nil
	return s
}

func withGoalText(s State, skill catalog.FocusArea, text string) State {
	s = s.clone()
	if g := s.Goals[string(skill)]; g != nil {
		g.Text = text
	}
	return s
}

func withGoalDeactivated(s State, goalID string) State {
	s = s.clone()
	for skill, g := range s.Goals {
		if g != nil && g.ID == goalID {
			s.Goals[skill] = nil
		}
	}
	return s
}

func withGoalAdded(s State, row db_models.Goal) State {
	s = s.clone()
	s.Goals[row.Skill] = &response_models.Goal{ID: row.ID, Text: row.GoalText, IsActive: row.IsActive}
	return s
}

func withAthleteAdded(s State, athlete db_models.Athlete) State {
	s = s.clone()
	s.Athletes = append(s.Athletes, athlete)
	s.CurrentAthleteID = athlete.ID
	s.Phase = PhaseReady
	s.Practices = []response_models.Practice{}
	s.Goals = emptyGoals()
	if s.DrillFrequency != nil {
		s.DrillFrequency = []db_models.DrillFrequency{}
	}
	return s
}

func withSaving(s State, saving bool) State {
	s = s.clone()
	s.Saving = saving
	return s
}

func withError(s State, err error) State {
	s = s.clone()
	if err == nil {
		s.Error = ""
		return s
	}
	s.Error = err.Error()
	return s
}
