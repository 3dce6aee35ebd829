// Package config loads server configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddr    string
	LogLevel      string
	FetchTimeout  time.Duration
	AllowedOrigin string
	// APISecret, when set, gates the API routes behind bearer tokens
	// signed with it. Empty means the API is open.
	APISecret string
}

func Load() *Config {
	fetchTimeout, _ := strconv.Atoi(getEnvOrDefault("FETCH_TIMEOUT_SECONDS", "20"))
	if fetchTimeout <= 0 {
		fetchTimeout = 20
	}

	return &Config{
		ServerAddr:    getEnvOrDefault("SERVER_ADDR", ":8080"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		FetchTimeout:  time.Duration(fetchTimeout) * time.Second,
		AllowedOrigin: getEnvOrDefault("CORS_ORIGIN", "*"),
		APISecret:     os.Getenv("API_SECRET"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
