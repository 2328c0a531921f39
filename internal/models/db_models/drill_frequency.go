package db_models

// DrillFrequency is a row of the read-only drill_frequency view, aggregated by
// the backend.
type DrillFrequency struct {
	AthleteID  string `gorm:"type:uuid;primaryKey" json:"athlete_id"`
	DrillID    string `gorm:"primaryKey" json:"drill_id"`
	UsageCount int    `json:"usage_count"`
}

func (DrillFrequency) TableName() string { return "drill_frequency" }
