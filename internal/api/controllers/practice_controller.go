package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"practicelog/internal/models/request_models"
	"practicelog/internal/services"
	"practicelog/pkg/middleware"
	"practicelog/pkg/utils"
)

type PracticeController struct {
	logbook services.LogbookServiceInterface
}

func NewPracticeController(logbook services.LogbookServiceInterface) *PracticeController {
	return &PracticeController{logbook: logbook}
}

// Form godoc
// @Summary Logging form defaults
// @Tags Practices
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /practices/form [get]
func (p *PracticeController) Form(c *gin.Context) {
	form, err := p.logbook.FormDefaults(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, form, "")
}

// Log godoc
// @Summary Quick-log a practice
// @Description Drills are only attached for Pro accounts
// @Tags Practices
// @Accept json
// @Produce json
// @Param request body request_models.QuickLogRequest true "Practice"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /practices [post]
func (p *PracticeController) Log(c *gin.Context) {
	var req request_models.QuickLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Select at least one focus area and a positive duration")
		return
	}
	practice, err := p.logbook.LogPractice(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, practice, "Practice logged")
}

// SaveGoal godoc
// @Summary Create, update or (with empty text) delete the goal for a skill
// @Tags Goals
// @Accept json
// @Produce json
// @Param skill path string true "hitting, pitching, fielding or conditioning"
// @Param request body request_models.SaveGoalRequest true "Goal"
// @Success 200 {object} utils.APIResponse
// @Router /goals/{skill} [put]
func (p *PracticeController) SaveGoal(c *gin.Context) {
	var req request_models.SaveGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	goals, err := p.logbook.SaveGoal(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c), c.Param("skill"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, goals, "Goal saved")
}

// DismissError godoc
// @Summary Clear the error banner
// @Tags Dashboard
// @Success 200 {object} utils.APIResponse
// @Router /errors [delete]
func (p *PracticeController) DismissError(c *gin.Context) {
	if err := p.logbook.DismissError(middleware.WorkspaceFrom(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "")
}
