package response_models

import (
	"practicelog/internal/models/db_models"
	"practicelog/internal/tier"
)

type WeekStats struct {
	PracticesThisWeek int    `json:"practices_this_week"`
	MinutesThisWeek   int    `json:"minutes_this_week"`
	Badge             string `json:"badge"`
}

type DrillUsage struct {
	DrillID string `json:"drill_id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}

// Dashboard is the home screen. DrillFrequency is only set for Pro accounts.
type Dashboard struct {
	Phase          string              `json:"phase"`
	Athletes       []db_models.Athlete `json:"athletes"`
	CurrentAthlete *db_models.Athlete  `json:"current_athlete"`
	Stats          WeekStats           `json:"stats"`
	LastSession    *Practice           `json:"last_session"`
	Goals          GoalMap             `json:"goals"`
	Recent         []Practice          `json:"recent"`
	DrillFrequency []DrillUsage         `json:"drill_frequency,omitempty"`
	Features       tier.Features       `json:"features"`
	Saving         bool                `json:"saving"`
	Error          string              `json:"error,omitempty"`
}

type WeekTotal struct {
	WeekStart string `json:"week_start"`
	Practices int    `json:"practices"`
	Minutes   int    `json:"minutes"`
}

type FocusShare struct {
	Area    string  `json:"area"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type DayActivity struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

type Charts struct {
	Weekly   []WeekTotal   `json:"weekly"`
	Focus    []FocusShare  `json:"focus"`
	Activity []DayActivity `json:"activity"`
}
