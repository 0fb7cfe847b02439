package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Monitor   MonitorConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8787"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// MonitorConfig holds detection cycle configuration.
type MonitorConfig struct {
	// MinCheckInterval gates how often a status poll may hit the OS.
	MinCheckInterval time.Duration `envconfig:"MIN_CHECK_INTERVAL" default:"1s"`
	// TickInterval is the cadence of the background status ticker.
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"2s"`
	// CommandTimeout bounds every external OS query or playback command.
	CommandTimeout time.Duration `envconfig:"COMMAND_TIMEOUT" default:"5s"`
	// ConfigPath overrides the persisted process-list location.
	ConfigPath string `envconfig:"CONFIG_PATH" default:""`
	// AutoStart begins monitoring immediately on boot.
	AutoStart bool `envconfig:"AUTO_START" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds HTTP rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("SOUNDBREAK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8787",
			Host: "127.0.0.1",
		},
		Monitor: MonitorConfig{
			MinCheckInterval: time.Second,
			TickInterval:     2 * time.Second,
			CommandTimeout:   5 * time.Second,
			AutoStart:        true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
