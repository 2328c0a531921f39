package controllers_fx

import (
	"go.uber.org/fx"

	"practicelog/internal/api"
	"practicelog/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAuthController),
	fx.Provide(controllers.NewAthleteController),
	fx.Provide(controllers.NewPracticeController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(controllers.NewExportController),
	fx.Provide(controllers.NewCatalogController),
	fx.Provide(provideHandlers))

type handlerParams struct {
	fx.In

	Auth      *controllers.AuthController
	Athletes  *controllers.AthleteController
	Practices *controllers.PracticeController
	Dashboard *controllers.DashboardController
	Export    *controllers.ExportController
	Billing   *controllers.BillingController
	Catalog   *controllers.CatalogController
}

func provideHandlers(p handlerParams) api.Handlers {
	return api.Handlers{
		Auth:      p.Auth,
		Athletes:  p.Athletes,
		Practices: p.Practices,
		Dashboard: p.Dashboard,
		Export:    p.Export,
		Billing:   p.Billing,
		Catalog:   p.Catalog,
	}
}
