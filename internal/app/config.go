package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Notification store backends.
const (
	NotifyStoreRedis  = "redis"
	NotifyStoreMemory = "memory"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://127.0.0.1:5000"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"0s"`

	RedisAddr  string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	NotifyStore string `envconfig:"NOTIFY_STORE" default:"redis"`

	CompareSessions int           `envconfig:"COMPARE_SESSIONS" default:"1024"`
	CompareTTL      time.Duration `envconfig:"COMPARE_TTL" default:"30m"`
}

// LoadConfig reads configuration from an optional .env file and the
// environment. Variables already set take precedence over the file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if cfg.BackendURL == "" {
		return nil, errors.New("backend url must be provided")
	}
	switch cfg.NotifyStore {
	case NotifyStoreRedis, NotifyStoreMemory:
	default:
		return nil, fmt.Errorf("unknown notify store %q", cfg.NotifyStore)
	}
	if cfg.CompareSessions <= 0 {
		return nil, errors.New("compare sessions must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
