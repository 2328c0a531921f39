package store

import (
	"time"

	"practicelog/internal/catalog"
	"practicelog/internal/models/db_models"
	"practicelog/internal/models/response_models"
)

type Phase string

const (
	PhaseLoading      Phase = "loading"
	PhaseNeedsAthlete Phase = "needs_athlete"
	PhaseReady        Phase = "ready"
)

const (
	RecentPracticeLimit = 50
	DrillFrequencyLimit = 10
	DefaultDuration     = 60
)

// QuickLogForm is the logging form draft. It is reset to defaults after every
// successful log.
type QuickLogForm struct {
	Date       string   `json:"date"`
	Duration   int      `json:"duration"`
	FocusAreas []string `json:"focus_areas"`
	Note       string   `json:"note"`
	Reflection string   `json:"reflection"`
	Drills     []string `json:"drills"`
}

func DefaultForm(now time.Time) QuickLogForm {
	return QuickLogForm{
		Date:       db_models.NewCalendarDate(now).String(),
		Duration:   DefaultDuration,
		FocusAreas: []string{},
		Drills:     []string{},
	}
}

type State struct {
	Phase            Phase                      `json:"phase"`
	Athletes         []db_models.Athlete        `json:"athletes"`
	CurrentAthleteID string                     `json:"current_athlete_id"`
	Practices        []response_models.Practice `json:"practices"`
	Goals            response_models.GoalMap    `json:"goals"`
	DrillFrequency   []db_models.DrillFrequency `json:"drill_frequency,omitempty"`
	Form             QuickLogForm               `json:"form"`
	Saving           bool                       `json:"saving"`
	Error            string                     `json:"error,omitempty"`
}

func InitialState(now time.Time) State {
	return State{
		Phase:     PhaseLoading,
		Athletes:  []db_models.Athlete{},
		Practices: []response_models.Practice{},
		Goals:     emptyGoals(),
		Form:      DefaultForm(now),
	}
}

func emptyGoals() response_models.GoalMap {
	goals := make(response_models.GoalMap, len(catalog.FocusAreas))
	for _, area := range catalog.FocusAreas {
		goals[string(area)] = nil
	}
	return goals
}

// CurrentAthlete returns nil until an athlete is selected.
func (s State) CurrentAthlete() *db_models.Athlete {
	for i := range s.Athletes {
		if s.Athletes[i].ID == s.CurrentAthleteID {
			a := s.Athletes[i]
			return &a
		}
	}
	return nil
}

func (s State) clone() State {
	out := s
	out.Athletes = append([]db_models.Athlete{}, s.Athletes...)
	out.Practices = append([]response_models.Practice{}, s.Practices...)
	out.Goals = s.Goals.Clone()
	if s.DrillFrequency != nil {
		out.DrillFrequency = append([]db_models.DrillFrequency{}, s.DrillFrequency...)
	}
	out.Form.FocusAreas = append([]string{}, s.Form.FocusAreas...)
	out.Form.Drills = append([]string{}, s.Form.Drills...)
	return out
}
