// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-hash-mcp/internal/dcthash"
	"github.com/ironsheep/image-hash-mcp/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel  = "IMAGE_HASH_MCP_LOG_LEVEL"
	EnvDBPath    = "IMAGE_HASH_MCP_DB_PATH"
	EnvThreshold = "IMAGE_HASH_MCP_THRESHOLD"
	EnvGrayscale = "IMAGE_HASH_MCP_GRAYSCALE"
	EnvWorkers   = "IMAGE_HASH_MCP_WORKERS"
)

// Config holds the server settings.
type Config struct {
	LogLevel string
	// DBPath is the bbolt index file. Empty disables the index tools.
	DBPath    string
	Threshold int
	Grayscale imaging.GrayscaleMode
	Workers   int
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		Threshold: dcthash.DefaultThreshold,
		Grayscale: imaging.GrayscaleRec601,
		Workers:   4,
	}
}

// Load returns the defaults overridden by any set environment variables.
// A set integer variable that does not parse is an error.
func Load() (*Config, error) {
	d := Default()
	threshold, err := getEnvInt(EnvThreshold, d.Threshold)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt(EnvWorkers, d.Workers)
	if err != nil {
		return nil, err
	}
	return &Config{
		LogLevel:  getEnv(EnvLogLevel, d.LogLevel),
		DBPath:    getEnv(EnvDBPath, d.DBPath),
		Threshold: threshold,
		Grayscale: imaging.GrayscaleMode(getEnv(EnvGrayscale, string(d.Grayscale))),
		Workers:   workers,
	}, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Threshold < 1 || c.Threshold > dcthash.Bits+1 {
		return fmt.Errorf("threshold must be between 1 and %d, got %d", dcthash.Bits+1, c.Threshold)
	}
	if _, err := imaging.ParseGrayscaleMode(string(c.Grayscale)); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Level returns the parsed log level, or info when LogLevel is invalid.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", key, v)
	}
	return i, nil
}
