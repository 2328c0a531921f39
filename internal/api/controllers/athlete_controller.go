package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"practicelog/internal/models/request_models"
	"practicelog/internal/services"
	"practicelog/pkg/middleware"
	"practicelog/pkg/utils"
)

type AthleteController struct {
	logbook services.LogbookServiceInterface
}

func NewAthleteController(logbook services.LogbookServiceInterface) *AthleteController {
	return &AthleteController{logbook: logbook}
}

// Create godoc
// @Summary Add an athlete and make it current
// @Tags Athletes
// @Accept json
// @Produce json
// @Param request body request_models.CreateAthleteRequest true "Athlete"
// @Success 201 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /athletes [post]
func (a *AthleteController) Create(c *gin.Context) {
	var req request_models.CreateAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Athlete name is required (max 50 characters)")
		return
	}
	athlete, err := a.logbook.AddAthlete(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, athlete, "Athlete added")
}

// Select godoc
// @Summary Switch the current athlete (Pro)
// @Tags Athletes
// @Produce json
// @Param id path string true "Athlete id"
// @Success 200 {object} utils.APIResponse
// @Router /athletes/{id}/select [post]
func (a *AthleteController) Select(c *gin.Context) {
	state, err := a.logbook.SelectAthlete(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, state, "")
}
