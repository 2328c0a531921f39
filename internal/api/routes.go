// Package api wires the controllers to their routes.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"practicelog/internal/api/controllers"
	"practicelog/internal/workspace"
	"practicelog/pkg/middleware"
)

type Handlers struct {
	Auth      *controllers.AuthController
	Athletes  *controllers.AthleteController
	Practices *controllers.PracticeController
	Dashboard *controllers.DashboardController
	Export    *controllers.ExportController
	Billing   *controllers.BillingController
	Catalog   *controllers.CatalogController
}

// RegisterRoutes expects the sessions middleware to already be installed on r.
func RegisterRoutes(r *gin.Engine, registry *workspace.Registry, logger *zap.Logger, h Handlers) {
	r.GET("/health", h.Catalog.Health)
	r.GET("/catalog/drills", h.Catalog.Drills)

	app := r.Group("/")
	app.Use(middleware.WorkspaceMiddleware(registry, logger))

	auth := app.Group("/auth")
	auth.POST("/sign-in", h.Auth.SignIn)
	auth.POST("/sign-up", h.Auth.SignUp)
	auth.POST("/sign-out", h.Auth.SignOut)
	auth.GET("/session", h.Auth.Session)

	protected := app.Group("/")
	protected.Use(middleware.RequireSession(logger))
	protected.POST("/profile/refresh", h.Auth.RefreshProfile)

	protected.GET("/dashboard", h.Dashboard.Dashboard)
	protected.POST("/dashboard/reload", h.Dashboard.Reload)
	protected.GET("/charts", h.Dashboard.Charts)

	protected.POST("/athletes", h.Athletes.Create)
	protected.POST("/athletes/:id/select", h.Athletes.Select)

	protected.GET("/practices/form", h.Practices.Form)
	protected.POST("/practices", h.Practices.Log)
	protected.PUT("/goals/:skill", h.Practices.SaveGoal)
	protected.DELETE("/errors", h.Practices.DismissError)

	protected.GET("/export/csv", h.Export.CSV)
	protected.GET("/export/report", h.Export.Report)

	protected.POST("/billing/checkout", h.Billing.Checkout)
}
