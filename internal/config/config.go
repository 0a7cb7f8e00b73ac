package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = ".geotag/config.yaml"
)

// Config holds the settings that are not part of a single run's arguments.
type Config struct {
	Workers   int    `yaml:"workers"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Exiftool  string `yaml:"exiftool"`
	Progress  bool   `yaml:"progress"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Workers:   runtime.NumCPU(),
		LogLevel:  "info",
		LogFormat: "console",
		Exiftool:  "exiftool",
	}
}

// DefaultPath returns ~/.geotag/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultConfigPath), nil
}

// Read parses the YAML config at path over the defaults. A missing file is
// not an error.
func Read(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Default workers if not set or invalid
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Exiftool == "" {
		cfg.Exiftool = "exiftool"
	}

	return cfg, nil
}
