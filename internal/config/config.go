// Package config loads run settings from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds run configuration loaded from environment variables.
// Command-line flags override these values.
type Config struct {
	Seed      int64
	DBPath    string
	Turns     int
	MapRadius int
	Factions  int
	Strict    bool
	Doctrine  string // Path to a JSON rule file; empty uses the default rules
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Seed:      envInt64("AUTOCIV_SEED", 42),
		DBPath:    envOrDefault("AUTOCIV_DB", "data/autociv.db"),
		Turns:     envInt("AUTOCIV_TURNS", 100),
		MapRadius: envInt("AUTOCIV_MAP_RADIUS", 16),
		Factions:  envInt("AUTOCIV_FACTIONS", 4),
		Strict:    envOrDefault("AUTOCIV_STRICT", "false") == "true",
		Doctrine:  os.Getenv("AUTOCIV_DOCTRINE"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(envOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	n, err := strconv.ParseInt(envOrDefault(key, ""), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
