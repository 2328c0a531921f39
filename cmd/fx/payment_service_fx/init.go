package payment_service_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"practicelog/internal/api/controllers"
	"practicelog/internal/infra"
	"practicelog/internal/services"
)

var Module = fx.Provide(
	provideBillingService, provideBillingController,
)

func provideBillingService(cfg infra.Config, logger *zap.Logger) services.BillingServiceInterface {
	billing := services.BillingConfig{
		SecretKey:   cfg.StripeSecretKey,
		PriceIDPro:  cfg.StripePriceIDPro,
		FrontendURL: cfg.FrontendURL,
	}
	if !billing.Enabled() {
		logger.Warn("stripe is not configured, upgrades are disabled")
	}
	return services.NewBillingService(billing, logger.Named("billing"))
}

func provideBillingController(billing services.BillingServiceInterface) *controllers.BillingController {
	return controllers.NewBillingController(billing)
}
