package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendMemory   = "memory"
	SessionBackendRedis    = "redis"
	SessionBackendPostgres = "postgres"
)

type Config struct {
	ServerPort string
	LogLevel   string

	Gateway struct {
		URL     string
		Timeout time.Duration
	}

	// ResolveConcurrency bounds how many orders are resolved at once.
	// 1 keeps a single outstanding upstream request.
	ResolveConcurrency int

	Session struct {
		Backend     string
		RedisAddr   string
		DatabaseURL string
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.ServerPort = os.Getenv("SERVER_PORT")
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Gateway.URL = os.Getenv("GATEWAY_URL")
	if cfg.Gateway.URL == "" {
		cfg.Gateway.URL = "http://127.0.0.1:8000"
	}

	cfg.Gateway.Timeout = 10 * time.Second
	if v := os.Getenv("GATEWAY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT %q: %w", v, err)
		}
		cfg.Gateway.Timeout = d
	}

	cfg.ResolveConcurrency = 1
	if v := os.Getenv("RESOLVE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("RESOLVE_CONCURRENCY must be a positive integer, got %q", v)
		}
		cfg.ResolveConcurrency = n
	}

	cfg.Session.Backend = os.Getenv("SESSION_BACKEND")
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = SessionBackendMemory
	}

	switch cfg.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		cfg.Session.RedisAddr = os.Getenv("REDIS_ADDR")
		if cfg.Session.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR must be set for the redis session backend")
		}
	case SessionBackendPostgres:
		cfg.Session.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.Session.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set for the postgres session backend")
		}
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.Session.Backend)
	}

	return cfg, nil
}
