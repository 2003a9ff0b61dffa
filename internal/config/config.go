// Package config loads the runtime settings for a workbox session from a
// yaml file under the user's .workbox directory. The core packages never
// read config themselves; the entry point passes values down explicitly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultCommandTimeoutSeconds bounds a shell command when the caller
	// does not override the timeout.
	DefaultCommandTimeoutSeconds = 20

	configFileName = "config.yaml"
)

// LogConfig controls the rotating log sink.
type LogConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	JSON       bool   `yaml:"json"`
}

// Config captures the tunable runtime settings for a session.
type Config struct {
	WorkspaceRoot         string    `yaml:"workspace_root"`
	CommandTimeoutSeconds int       `yaml:"command_timeout_seconds"`
	NotesPath             string    `yaml:"notes_path"`
	Log                   LogConfig `yaml:"log"`
}

// GetConfigDir returns the directory holding config, notes and logs.
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".workbox"
	}
	return filepath.Join(home, ".workbox")
}

// Default returns the built-in settings.
func Default() Config {
	dir := GetConfigDir()
	return Config{
		CommandTimeoutSeconds: DefaultCommandTimeoutSeconds,
		NotesPath:             filepath.Join(dir, "notes.db"),
		Log: LogConfig{
			Path:       filepath.Join(dir, "workbox.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

// EnsureDefault creates config.yaml with defaults if it doesn't exist and
// returns its path.
func EnsureDefault() (string, error) {
	dir := GetConfigDir()
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write default config: %w", err)
	}
	return path, nil
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if cfg.CommandTimeoutSeconds <= 0 {
		cfg.CommandTimeoutSeconds = DefaultCommandTimeoutSeconds
	}
	return cfg, nil
}

// CommandTimeout returns the configured timeout as a duration.
func (c Config) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutSeconds) * time.Second
}
