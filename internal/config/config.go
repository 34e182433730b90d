// Package config loads host configuration from the environment. A .env
// file in the working directory is honored when present; real environment
// variables win over it.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variable names.
const (
	EnvLogLevel = "RACECARD_LOG_LEVEL"
	EnvSeed     = "RACECARD_SEED"
)

// Config holds the host process settings.
type Config struct {
	// LogLevel is the logrus level for host logging. Defaults to info.
	LogLevel logrus.Level
	// SeedOverride, when nonzero, seeds every created game with this value
	// instead of the clock, making games reproducible for replay and tests.
	SeedOverride uint64
}

// Load reads configuration from the environment, after loading .env if one
// exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{LogLevel: logrus.InfoLevel}

	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid %s %q: %w", EnvLogLevel, v, err)
		}
		cfg.LogLevel = level
	}

	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: invalid %s %q: %w", EnvSeed, v, err)
		}
		cfg.SeedOverride = seed
	}

	return cfg, nil
}

// NewLogger builds a logrus logger at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	return logger
}
