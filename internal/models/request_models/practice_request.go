package request_models

type CreateAthleteRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// QuickLogRequest is the logging form. Date defaults to today when empty.
type QuickLogRequest struct {
	Date       string   `json:"date"`
	Duration   int      `json:"duration" binding:"required,gt=0,lte=600"`
	FocusAreas []string `json:"focus_areas" binding:"required,min=1,dive,oneof=hitting pitching fielding conditioning"`
	Note       string   `json:"note" binding:"max=200"`
	Reflection string   `json:"reflection" binding:"max=200"`
	Drills     []string `json:"drills"`
}

// SaveGoalRequest with empty text deletes the goal for the skill.
type SaveGoalRequest struct {
	Text string `json:"text" binding:"max=200"`
}
