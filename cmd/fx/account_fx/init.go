package account_fx

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"practicelog/internal/identity"
	"practicelog/internal/infra"
	"practicelog/internal/services"
)

var Module = fx.Provide(
	provideIdentityProvider, provideAuthService)

func provideIdentityProvider(cfg infra.Config, client *http.Client, logger *zap.Logger) (identity.Provider, error) {
	return identity.NewGoTrue(cfg.SupabaseURL, cfg.SupabaseAnonKey, client, logger.Named("identity"))
}

func provideAuthService(logger *zap.Logger) services.AuthServiceInterface {
	return services.NewAuthService(logger)
}
