package controllers

import (
	"github.com/gin-gonic/gin"

	"practicelog/internal/services"
	"practicelog/pkg/middleware"
	"practicelog/pkg/utils"
)

type DashboardController struct {
	dashboard services.DashboardServiceInterface
}

func NewDashboardController(dashboard services.DashboardServiceInterface) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// Dashboard godoc
// @Summary Stats, last session, goals and recent history for the current athlete
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /dashboard [get]
func (d *DashboardController) Dashboard(c *gin.Context) {
	out, err := d.dashboard.Dashboard(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, out, "")
}

// Reload godoc
// @Summary Re-read athletes, practices and goals from the backend
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /dashboard/reload [post]
func (d *DashboardController) Reload(c *gin.Context) {
	out, err := d.dashboard.Reload(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, out, "")
}

// Charts godoc
// @Summary Weekly totals, focus distribution and 30-day activity (Pro)
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /charts [get]
func (d *DashboardController) Charts(c *gin.Context) {
	out, err := d.dashboard.Charts(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, out, "")
}
