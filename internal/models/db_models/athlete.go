package db_models

import "time"

// Athlete is a child profile owned by an account. Archived athletes keep their
// row and are filtered out with archived_at is null.
type Athlete struct {
	BaseModel
	UserID     string     `gorm:"type:uuid;index;not null" json:"user_id"`
	Name       string     `gorm:"size:50;not null" json:"name"`
	ArchivedAt *time.Time `gorm:"index" json:"archived_at"`
}

func (Athlete) TableName() string { return "athletes" }
