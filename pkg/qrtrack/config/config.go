// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the server and CLI.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "3000".
	Port string

	// BindAddr is the interface to bind. Empty means all interfaces.
	BindAddr string

	// BaseURL is the public deployment root. It is embedded into every QR
	// code, so it must not change once posters are printed.
	BaseURL string

	// DBPath is the SQLite database file.
	DBPath string

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string

	// AppEnv selects log formatting: "production" logs JSON.
	AppEnv string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Config{
		Port:     getEnv("PORT", "3000"),
		BindAddr: os.Getenv("BIND_ADDR"),
		DBPath:   getEnv("QRTRACK_DB_PATH", "qrtrack.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		AppEnv:   getEnv("APP_ENV", "development"),
	}
	cfg.BaseURL = strings.TrimRight(getEnv("BASE_URL", "http://localhost:"+cfg.Port), "/")

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("BASE_URL must be an absolute http(s) URL, got %q", cfg.BaseURL)
	}

	return cfg, nil
}

// Addr is the listen address for net/http.
func (c Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}

// Production reports whether the server runs in production mode.
func (c Config) Production() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
