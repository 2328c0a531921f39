package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"practicelog/internal/store"
	"practicelog/pkg/utils"
)

const (
	DriverPostgREST = "postgrest"
	DriverPostgres  = "postgres"

	defaultPort         = "8080"
	defaultWorkspaceTTL = 12 * time.Hour
)

type Config struct {
	Port   string
	AppEnv string

	SupabaseURL     string
	SupabaseAnonKey string

	GatewayDriver string
	PostgresURL   string

	DrillInsertMode store.DrillInsertMode
	WorkspaceTTL    time.Duration

	// SessionSecret seeds the cookie keys. When unset outside production a
	// random one is generated, so cookies do not survive a restart.
	SessionSecret string
	FrontendURL   string

	StripeSecretKey  string
	StripePriceIDPro string
}

func (c Config) Production() bool {
	return c.AppEnv == "production"
}

// LoadConfig reads the environment, after loading .env when present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds the configuration from a lookup function.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		Port:             get("PORT"),
		AppEnv:           strings.ToLower(get("APP_ENV")),
		SupabaseURL:      get("SUPABASE_URL"),
		SupabaseAnonKey:  get("SUPABASE_ANON_KEY"),
		GatewayDriver:    strings.ToLower(get("GATEWAY_DRIVER")),
		PostgresURL:      get("POSTGRES_URL"),
		SessionSecret:    get("SESSION_SECRET"),
		FrontendURL:      strings.TrimRight(get("FRONTEND_URL"), "/"),
		StripeSecretKey:  get("STRIPE_SECRET_KEY"),
		StripePriceIDPro: get("STRIPE_PRICE_ID_PRO"),
		WorkspaceTTL:     defaultWorkspaceTTL,
	}

	var missing []string
	if cfg.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if cfg.SupabaseAnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	switch cfg.GatewayDriver {
	case "":
		cfg.GatewayDriver = DriverPostgREST
	case DriverPostgREST:
	case DriverPostgres:
		if cfg.PostgresURL == "" {
			return Config{}, errors.New("POSTGRES_URL is required when GATEWAY_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown GATEWAY_DRIVER %q", cfg.GatewayDriver)
	}

	mode, err := store.ParseDrillInsertMode(get("DRILL_INSERT_MODE"))
	if err != nil {
		return Config{}, err
	}
	cfg.DrillInsertMode = mode

	if raw := get("WORKSPACE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid WORKSPACE_TTL %q", raw)
		}
		cfg.WorkspaceTTL = ttl
	}

	if cfg.SessionSecret == "" {
		if cfg.Production() {
			return Config{}, errors.New("SESSION_SECRET is required in production")
		}
		secret, err := utils.GenerateSecureToken(32)
		if err != nil {
			return Config{}, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.SessionSecret = secret
	}

	return cfg, nil
}
