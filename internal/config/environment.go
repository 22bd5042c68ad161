// Package config provides configuration loading for pasteshare.
package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/roguepikachu/pasteshare/pkg/logger"
)

// Settings store backends.
const (
	StoreMemory   = "memory"
	StoreBolt     = "bolt"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds environment configuration for the UI server and the CLI.
type Config struct {
	// Port is the port the web UI listens on.
	Port string `env:"PASTESHARE_PORT" envDefault:"3000"`
	// APIBaseURL is the paste API origin. Empty means same origin as the UI.
	APIBaseURL string `env:"PASTESHARE_API_BASE_URL"`
	// Production switches deployment hints to production rules.
	Production bool `env:"PASTESHARE_PRODUCTION"`
	// PublicOrigin is the externally visible UI origin used for shareable links.
	// When empty the UI derives it from each request.
	PublicOrigin string `env:"PASTESHARE_PUBLIC_ORIGIN"`
	// APITimeout bounds each API call. Zero means no timeout.
	APITimeout time.Duration `env:"PASTESHARE_API_TIMEOUT" envDefault:"0s"`
	// SSL enables HSTS and HTTPS redirects when the UI terminates TLS itself.
	SSL bool `env:"PASTESHARE_SSL"`

	ExternalAPIHosts []string `env:"PASTESHARE_EXTERNAL_API_HOSTS" envDefault:"vercel.app,netlify.app,github.io"`
	SameHostHosts    []string `env:"PASTESHARE_SAME_HOST_HOSTS" envDefault:"onrender.com"`

	// SettingsStore selects where the test-clock override lives.
	SettingsStore string `env:"PASTESHARE_SETTINGS_STORE" envDefault:"memory"`
	BoltPath      string `env:"PASTESHARE_BOLT_PATH" envDefault:"pasteshare.db"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	PostgresURL      string `env:"POSTGRES_URL"`
	PostgresHost     string `env:"POSTGRES_HOST"`
	PostgresPort     string `env:"POSTGRES_PORT"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE"`
}

// Conf holds the global configuration.
var Conf Config

func loadDotEnv() error {
	// Existing environment variables are not overridden.
	path := os.Getenv("DOTENV_PATHS")
	if path == "" {
		return nil
	}
	return godotenv.Load(strings.Split(path, ",")...)
}

// Load reads .env files listed in DOTENV_PATHS and the environment into a new Config.
func Load() (Config, error) {
	var c Config
	if err := loadDotEnv(); err != nil {
		return c, err
	}
	if err := env.Parse(&c); err != nil {
		return c, err
	}
	c.SettingsStore = strings.ToLower(strings.TrimSpace(c.SettingsStore))
	return c, nil
}

// InitConf initializes the global configuration, exiting on failure.
func InitConf() {
	c, err := Load()
	if err != nil {
		logger.Fatal(context.Background(), "load config: %v", err)
	}
	Conf = c
}
