package config

import (
	"os"
	"strconv"
	"strings"

	"pimprep/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Thresholds ThresholdConfig
	Uom        UomConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. URL empty means
// persistence is disabled and results are kept in-memory only.
type DatabaseConfig struct {
	URL string
}

// ThresholdConfig holds the cardinality bands used by the classifier.
// Low and Medium are ratios in (0,1) with Medium strictly above Low.
type ThresholdConfig struct {
	Low    float64
	Medium float64
}

// UomConfig holds caller-supplied unit-of-measure keywords appended to
// the built-in set.
type UomConfig struct {
	CustomKeywords []string
}

// Defaults used when the environment does not override them.
const (
	DefaultPort            = "8080"
	DefaultLowThreshold    = 0.1
	DefaultMediumThreshold = 0.5
)

// Load builds a Config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", DefaultPort),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Thresholds: ThresholdConfig{
			Low:    getEnvFloat("CARDINALITY_LOW", DefaultLowThreshold),
			Medium: getEnvFloat("CARDINALITY_MEDIUM", DefaultMediumThreshold),
		},
		Uom: UomConfig{
			CustomKeywords: splitList(os.Getenv("UOM_KEYWORDS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid combinations. Invalid
// thresholds are rejected, never clamped.
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.Low <= 0 || t.Low >= 1 {
		return errors.NewConfig("CARDINALITY_LOW must be in (0,1)")
	}
	if t.Medium <= 0 || t.Medium >= 1 {
		return errors.NewConfig("CARDINALITY_MEDIUM must be in (0,1)")
	}
	if t.Medium <= t.Low {
		return errors.NewConfig("CARDINALITY_MEDIUM must be greater than CARDINALITY_LOW")
	}
	if c.Server.Port == "" {
		return errors.NewConfig("PORT must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
