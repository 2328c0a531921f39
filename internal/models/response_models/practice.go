package response_models

import (
	"time"

	"practicelog/internal/models/db_models"
)

// Practice is the display shape of a sessions row.
type Practice struct {
	ID         string    `json:"id"`
	AthleteID  string    `json:"athlete_id"`
	Date       string    `json:"date"`
	Duration   int       `json:"duration"`
	FocusAreas []string  `json:"focus_areas"`
	Note       string    `json:"note"`
	Reflection string    `json:"reflection"`
	CreatedAt  time.Time `json:"created_at"`
}

func PracticeFromRow(row db_models.PracticeSession) Practice {
	p := Practice{
		ID:         row.ID,
		AthleteID:  row.AthleteID,
		Date:       row.Date.String(),
		Duration:   row.DurationMinutes,
		FocusAreas: append([]string{}, row.FocusAreas...),
		CreatedAt:  row.CreatedAt,
	}
	if row.Note != nil {
		p.Note = *row.Note
	}
	if row.Reflection != nil {
		p.Reflection = *row.Reflection
	}
	return p
}

type Goal struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	IsActive bool   `json:"isActive"`
}

// GoalMap holds one entry per focus area; areas without an active goal map
// to nil.
type GoalMap map[string]*Goal

func (g GoalMap) Clone() GoalMap {
	out := make(GoalMap, len(g))
	for k, v := range g {
		if v == nil {
			out[k] = nil
			continue
		}
		cp := *v
		out[k] = &cp
	}
	return out
}

func (g GoalMap) ActiveCount() int {
	n := 0
	for _, v := range g {
		if v != nil {
			n++
		}
	}
	return n
}
