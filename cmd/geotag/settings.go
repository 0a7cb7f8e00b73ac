package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/electronjoe/geotag/internal/config"
)

// loadSettings layers flags over environment variables over the YAML config
// file over defaults.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	path := getConfigString(cmd, "config", "GEOTAG_CONFIG", "")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}

	cfg, err := config.Read(expandHome(path))
	if err != nil {
		return config.Config{}, err
	}

	cfg.Workers = getConfigInt(cmd, "workers", "GEOTAG_WORKERS", cfg.Workers)
	cfg.LogLevel = getConfigString(cmd, "log-level", "GEOTAG_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getConfigString(cmd, "log-format", "GEOTAG_LOG_FORMAT", cfg.LogFormat)
	cfg.Exiftool = getConfigString(cmd, "exiftool", "GEOTAG_EXIFTOOL", cfg.Exiftool)
	if cmd.Flags().Changed("progress") {
		cfg.Progress, _ = cmd.Flags().GetBool("progress")
	}
	return cfg, nil
}

// getConfigString gets a string value from flag, then env, then default
func getConfigString(cmd *cobra.Command, flagName, envName, defaultValue string) string {
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetString(flagName)
		return val
	}
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return defaultValue
}

// getConfigInt gets an int value from flag, then env, then default
func getConfigInt(cmd *cobra.Command, flagName, envName string, defaultValue int) int {
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetInt(flagName)
		return val
	}
	if v := os.Getenv(envName); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
