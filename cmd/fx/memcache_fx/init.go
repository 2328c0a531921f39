package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"practicelog/internal/gateway"
	"practicelog/internal/identity"
	"practicelog/internal/infra"
	"practicelog/internal/workspace"
)

const janitorInterval = 5 * time.Minute

var Module = fx.Options(
	fx.Provide(provideWorkspaceFactory, provideWorkspaceRegistry),
	fx.Invoke(startJanitor),
)

func provideWorkspaceFactory(gw gateway.Gateway, provider identity.Provider, cfg infra.Config, logger *zap.Logger) *workspace.Factory {
	return workspace.NewFactory(gw, provider, workspace.Config{
		DrillInsertMode: cfg.DrillInsertMode,
		ProfileTimeout:  identity.DefaultProfileTimeout,
		TTL:             cfg.WorkspaceTTL,
	}, logger.Named("workspace"))
}

func provideWorkspaceRegistry(factory *workspace.Factory, logger *zap.Logger) *workspace.Registry {
	return workspace.NewRegistry(factory, logger.Named("workspace"))
}

// startJanitor sweeps idle workspaces for the lifetime of the app.
func startJanitor(lc fx.Lifecycle, registry *workspace.Registry) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go registry.RunJanitor(ctx, janitorInterval)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
