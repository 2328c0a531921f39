package db_models

type Goal struct {
	BaseModel
	AthleteID string `gorm:"type:uuid;index;not null" json:"athlete_id"`
	Skill     string `gorm:"not null" json:"skill"`
	GoalText  string `gorm:"not null" json:"goal_text"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
}

func (Goal) TableName() string { return "goals" }
