package app

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	DBAutoMigrate  bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	DBMaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`

	RedisAddr string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	Auth0Domain    string        `envconfig:"AUTH0_DOMAIN" required:"true"`
	APIAudience    string        `envconfig:"API_AUDIENCE" required:"true"`
	Algorithms     []string      `envconfig:"ALGORITHMS" default:"RS256"`
	JWKSCacheTTL   time.Duration `envconfig:"JWKS_CACHE_TTL" default:"10m"`
	JWKSMinRefresh time.Duration `envconfig:"JWKS_MIN_REFRESH" default:"30s"`

	RateLimitPerMinute int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	CORSAllowedOrigin  string `envconfig:"CORS_ALLOWED_ORIGIN" default:"*"`

	CatalogWarmupCron string `envconfig:"CATALOG_WARMUP_CRON" default:"*/30 * * * *"`
	WorkerMetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("database url must be provided")
	}
	cfg.Auth0Domain = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(cfg.Auth0Domain), "https://"), "/")
	if cfg.Auth0Domain == "" {
		return nil, errors.New("auth0 domain must be provided")
	}
	if strings.TrimSpace(cfg.APIAudience) == "" {
		return nil, errors.New("api audience must be provided")
	}
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = []string{"RS256"}
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Issuer is the expected "iss" claim.
func (c *Config) Issuer() string {
	return "https://" + c.Auth0Domain + "/"
}

// JWKSURL is where the identity provider publishes its signing keys.
func (c *Config) JWKSURL() string {
	return "https://" + c.Auth0Domain + "/.well-known/jwks.json"
}
