// ABOUTME: Environment-driven configuration
// ABOUTME: Reads LOWHUM_* variables with an optional .env file
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings. Everything has a sensible default, so
// an empty environment works out of the box.
type Config struct {
	// DataDir caches the generated noise file. Default: ~/.lowhum
	DataDir string

	// DeviceIndex selects the output device; -1 means system default.
	DeviceIndex int

	// PollInterval for the device watcher.
	PollInterval time.Duration

	// Duration of the generated noise loop.
	Duration time.Duration
}

// Load reads configuration from the environment, after merging in a
// .env file when one exists in the working directory.
func Load() (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := &Config{
		DeviceIndex:  -1,
		PollInterval: 2 * time.Second,
		Duration:     time.Hour,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	cfg.DataDir = filepath.Join(home, ".lowhum")

	if v := os.Getenv("LOWHUM_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LOWHUM_DEVICE"); v != "" {
		idx, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("LOWHUM_DEVICE: %w", err)
		}
		cfg.DeviceIndex = idx
	}
	if v := os.Getenv("LOWHUM_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("LOWHUM_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}
	if v := os.Getenv("LOWHUM_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("LOWHUM_DURATION: %w", err)
		}
		cfg.Duration = d
	}

	return cfg, nil
}
