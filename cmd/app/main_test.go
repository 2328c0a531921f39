package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"practicelog/internal/api"
	"practicelog/internal/api/controllers"
	"practicelog/internal/gateway/gatewaytest"
	"practicelog/internal/identity/identitytest"
	"practicelog/internal/infra"
	"practicelog/internal/repositories"
	"practicelog/internal/services"
	"practicelog/internal/workspace"
)

func testConfig(t *testing.T) infra.Config {
	cfg, err := infra.ConfigFromEnv(func(key string) string {
		return map[string]string{
			"SUPABASE_URL":      "https://project.supabase.co",
			"SUPABASE_ANON_KEY": "anon",
			"FRONTEND_URL":      "https://app.example.com",
		}[key]
	})
	require.NoError(t, err)
	return cfg
}

func TestAppGraphResolves(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("GATEWAY_DRIVER", "postgrest")

	require.NoError(t, fx.ValidateApp(appOptions()))
}

func TestRouterMiddlewareChain(t *testing.T) {
	logger := zap.NewNop()
	gw := gatewaytest.NewMemory()
	factory := workspace.NewFactory(gw, identitytest.NewProvider(), workspace.Config{}, logger)
	logbook := services.NewLogbookService()
	handlers := api.Handlers{
		Auth:      controllers.NewAuthController(services.NewAuthService(logger), logger),
		Athletes:  controllers.NewAthleteController(logbook),
		Practices: controllers.NewPracticeController(logbook),
		Dashboard: controllers.NewDashboardController(services.NewDashboardService(logbook)),
		Export:    controllers.NewExportController(services.NewExportService(logbook, repositories.NewPracticeRepository(gw), logger)),
		Billing:   controllers.NewBillingController(services.NewBillingService(services.BillingConfig{}, logger)),
		Catalog:   controllers.NewCatalogController(),
	}

	r, err := ProvideRouter(testConfig(t), workspace.NewRegistry(factory, logger), handlers, logger)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "practicelog=")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")
}
