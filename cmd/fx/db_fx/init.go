package db_fx

import (
	"context"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"practicelog/internal/gateway"
	"practicelog/internal/infra"
)

var Module = fx.Provide(
	provideHTTPClient, provideGateway)

func provideHTTPClient() *http.Client {
	return &http.Client{}
}

// provideGateway picks the data gateway driver. The direct driver owns a
// connection pool that is closed on shutdown.
func provideGateway(lc fx.Lifecycle, cfg infra.Config, client *http.Client, logger *zap.Logger) (gateway.Gateway, error) {
	if cfg.GatewayDriver != infra.DriverPostgres {
		logger.Info("using postgrest gateway", zap.String("url", cfg.SupabaseURL))
		return gateway.NewPostgREST(cfg.SupabaseURL, cfg.SupabaseAnonKey, client, logger.Named("gateway"))
	}

	db, err := infra.OpenPostgres(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgres(db, logger)
			return nil
		},
	})
	logger.Info("using direct postgres gateway")
	return gateway.NewGorm(db, logger.Named("gateway")), nil
}
