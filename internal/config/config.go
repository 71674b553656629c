package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config carries the generation and storage settings read from the optional config
// file. Flags and environment variables override individual fields downstream.
type Config struct {
	Provider       string   `yaml:"provider"`
	Model          string   `yaml:"model"`
	FallbackModels []string `yaml:"fallback_models"`
	Endpoint       string   `yaml:"endpoint"`
	SessionDir     string   `yaml:"session_dir"`
}

// Load reads the config file at path, tolerating a missing file by returning the
// zero config. Path "" means DefaultPath.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config file, creating its directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return errors.New("no config path available")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultPath is the per-user config location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "tracescribe", "config.yml")
}
