package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practicelog/internal/store"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func base() map[string]string {
	return map[string]string{
		"SUPABASE_URL":      "https://project.supabase.co",
		"SUPABASE_ANON_KEY": "anon",
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := ConfigFromEnv(env(base()))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, DriverPostgREST, cfg.GatewayDriver)
	assert.Equal(t, store.DrillInsertSequential, cfg.DrillInsertMode)
	assert.Equal(t, 12*time.Hour, cfg.WorkspaceTTL)
	assert.NotEmpty(t, cfg.SessionSecret)
	assert.False(t, cfg.Production())
}

func TestConfigRequiresBackend(t *testing.T) {
	_, err := ConfigFromEnv(env(map[string]string{"SUPABASE_URL": "https://x.supabase.co"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_ANON_KEY")

	_, err = ConfigFromEnv(env(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL, SUPABASE_ANON_KEY")
}

func TestConfigOverrides(t *testing.T) {
	values := base()
	values["PORT"] = "9000"
	values["APP_ENV"] = "Production"
	values["SESSION_SECRET"] = "s3cret"
	values["GATEWAY_DRIVER"] = "postgres"
	values["POSTGRES_URL"] = "postgres://localhost/practicelog"
	values["DRILL_INSERT_MODE"] = "batch"
	values["WORKSPACE_TTL"] = "30m"
	values["FRONTEND_URL"] = "https://app.example.com/"

	cfg, err := ConfigFromEnv(env(values))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, DriverPostgres, cfg.GatewayDriver)
	assert.Equal(t, store.DrillInsertBatch, cfg.DrillInsertMode)
	assert.Equal(t, 30*time.Minute, cfg.WorkspaceTTL)
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
}

func TestConfigRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":       {"GATEWAY_DRIVER": "mysql"},
		"postgres url": {"GATEWAY_DRIVER": "postgres"},
		"insert mode":  {"DRILL_INSERT_MODE": "parallel"},
		"ttl":          {"WORKSPACE_TTL": "soon"},
		"prod secret":  {"APP_ENV": "production"},
		"negative ttl": {"WORKSPACE_TTL": "-1h"},
	}
	for name, extra := range cases {
		t.Run(name, func(t *testing.T) {
			values := base()
			for k, v := range extra {
				values[k] = v
			}
			_, err := ConfigFromEnv(env(values))
			assert.Error(t, err)
		})
	}
}
