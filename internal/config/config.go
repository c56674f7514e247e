// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime-tunable setting.
type Config struct {
	Seed       int64   // World seed; the world is deterministic given a seed
	GridWidth  int     // Tile grid width
	GridHeight int     // Tile grid height
	Porters    int     // Starting porter count
	Builders   int     // Starting builder count
	Speed      float64 // Initial engine speed multiplier
	Port       int     // HTTP API port
	DBPath     string  // Journal database path
	AdminKey   string  // Bearer token for POST endpoints; empty disables them
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Seed:       envInt64("HOMESTEAD_SEED", 42),
		GridWidth:  envInt("HOMESTEAD_GRID_WIDTH", 64),
		GridHeight: envInt("HOMESTEAD_GRID_HEIGHT", 64),
		Porters:    envInt("HOMESTEAD_PORTERS", 4),
		Builders:   envInt("HOMESTEAD_BUILDERS", 2),
		Speed:      envFloat("HOMESTEAD_SPEED", 1.0),
		Port:       envInt("HOMESTEAD_PORT", 8080),
		DBPath:     envString("HOMESTEAD_DB", "data/homestead.db"),
		AdminKey:   envString("HOMESTEAD_ADMIN_KEY", ""),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
