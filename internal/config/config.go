// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Cache backend names accepted in CACHE_BACKEND.
const (
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config holds all application configuration. It is built once at process
// start and passed down; nothing reads the environment after Load returns.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// GitHubToken authenticates requests against the lesson repository's
	// contents API.
	GitHubToken string `env:"GITHUB_TOKEN"`

	// GitHubContentsURL is the contents endpoint the resolver appends
	// canonical lesson paths to.
	GitHubContentsURL string `env:"GITHUB_CONTENTS_URL" envDefault:"https://api.github.com/repos/Adventech/sabbath-school-lessons/contents/src"`

	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	CacheBackend string `env:"CACHE_BACKEND" envDefault:"redis"`
	CacheDir     string `env:"CACHE_DIR"`

	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// PrewarmPaths are canonical lesson paths the worker re-resolves on a
	// schedule so popular listings stay warm across TTL expiry.
	PrewarmPaths    []string      `env:"PREWARM_PATHS" envSeparator:","`
	PrewarmInterval time.Duration `env:"PREWARM_INTERVAL" envDefault:"30m"`
}

// ConfigurationError reports a missing or invalid configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Field, e.Reason)
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.GitHubToken == "" {
		return nil, &ConfigurationError{Field: "GITHUB_TOKEN", Reason: "is required"}
	}

	switch cfg.CacheBackend {
	case BackendRedis, BackendFile, BackendMemory:
	default:
		return nil, &ConfigurationError{
			Field:  "CACHE_BACKEND",
			Reason: fmt.Sprintf("must be one of redis, file, memory; got %q", cfg.CacheBackend),
		}
	}

	if cfg.CacheTTL <= 0 {
		return nil, &ConfigurationError{Field: "CACHE_TTL", Reason: "must be positive"}
	}

	// Drop blank entries so a trailing comma in PREWARM_PATHS is harmless.
	var paths []string
	for _, p := range cfg.PrewarmPaths {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	cfg.PrewarmPaths = paths

	return cfg, nil
}
