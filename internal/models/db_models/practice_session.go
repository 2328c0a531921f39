package db_models

import "github.com/lib/pq"

// PracticeSession is one logged practice. Sessions are insert-only.
type PracticeSession struct {
	BaseModel
	AthleteID       string         `gorm:"type:uuid;index;not null" json:"athlete_id"`
	Date            CalendarDate   `gorm:"type:date;index;not null" json:"date"`
	DurationMinutes int            `gorm:"not null" json:"duration_minutes"`
	FocusAreas      pq.StringArray `gorm:"type:text[];not null" json:"focus_areas"`
	Note            *string        `gorm:"size:200" json:"note"`
	Reflection      *string        `gorm:"size:200" json:"reflection"`
}

func (PracticeSession) TableName() string { return "sessions" }

// SessionDrill attaches one catalog drill to a session (Pro only).
type SessionDrill struct {
	BaseModel
	SessionID string `gorm:"type:uuid;index;not null" json:"session_id"`
	DrillID   string `gorm:"not null" json:"drill_id"`
}

func (SessionDrill) TableName() string { return "session_drills" }
