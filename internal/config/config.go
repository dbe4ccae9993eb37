package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Port         string
	RedisURL     string // empty means in-process cache only
	SearXNGURL   string
	SettingsFile string

	// Retrieval tuning
	DomainRate float64 // per-domain fetch rate, requests per second
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "5000"),
		RedisURL:     getEnv("REDIS_URL", ""),
		SearXNGURL:   getEnv("SEARXNG_URL", "http://localhost:8080"),
		SettingsFile: getEnv("SETTINGS_FILE", "settings.json"),
		DomainRate:   getFloatEnv("DOMAIN_RATE", 2.0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
