package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// StageLocalhost marks the local development deployment.
const StageLocalhost = "localhost"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BackendURL string `mapstructure:"backend_url"`
	Stage      string `mapstructure:"app_stage"`
	Language   string `mapstructure:"app_language"`

	LocalDelayMillis      int64         `mapstructure:"local_delay_ms"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	LocalDelay            time.Duration `mapstructure:"-"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	TokenStoreType string `mapstructure:"token_store_type"`
	TokenStorePath string `mapstructure:"token_store_path"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "samvad-fetcher")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("backend_url", "http://localhost:8080")
	v.SetDefault("app_stage", StageLocalhost)
	v.SetDefault("app_language", "en")
	v.SetDefault("local_delay_ms", 500)
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("token_store_type", "bbolt")
	v.SetDefault("token_store_path", "./data/credentials.db")
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BackendURL = strings.TrimSpace(cfg.BackendURL)
	cfg.Stage = strings.ToLower(strings.TrimSpace(cfg.Stage))
	cfg.Language = strings.TrimSpace(cfg.Language)

	if cfg.LocalDelayMillis < 0 {
		return nil, fmt.Errorf("invalid local_delay_ms (must not be negative)")
	}
	cfg.LocalDelay = time.Duration(cfg.LocalDelayMillis) * time.Millisecond

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	return &cfg, nil
}
