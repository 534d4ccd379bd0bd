// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package meta

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the user-level credential and preference file, distinct from
// the per-working-copy state.json.
type Config struct {
	APIKey              string              `yaml:"apiKey"`
	RefreshToken        string              `yaml:"refreshToken"`
	GlobalIgnoreFiles   []string            `yaml:"globalIgnoreFiles"`
	DangerousOperations DangerousOperations `yaml:"dangerousOperations"`
	EditorTemplate      string              `yaml:"editorTemplate"`
}

// DangerousOperations gates operations that can discard local or remote
// state (e.g. a checkout that would overwrite dirty files).
type DangerousOperations struct {
	Confirmation bool `yaml:"confirmation"`
}

// DefaultConfig returns the config used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		GlobalIgnoreFiles:   []string{"~/.vtignore"},
		DangerousOperations: DangerousOperations{Confirmation: true},
	}
}

// Load reads and parses the config file at path, applying environment
// overrides on top.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDefault searches the standard config locations in order, falling
// back to DefaultConfig with env overrides if none exist.
func LoadDefault() (*Config, error) {
	for _, loc := range defaultConfigLocations() {
		if _, err := os.Stat(loc); err == nil {
			return Load(loc)
		}
	}

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes cfg to path as YAML, creating its parent directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// GlobalConfigPath returns the first of the standard config locations,
// falling back to the XDG-less ~/.config path when neither exists yet.
func GlobalConfigPath() (string, error) {
	for _, loc := range defaultConfigLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}
	locs := defaultConfigLocations()
	if len(locs) == 0 {
		return "", fmt.Errorf("cannot resolve a config directory: no $HOME")
	}
	return locs[len(locs)-1], nil
}

// LocalConfigPath returns the per-working-copy config override path, a
// sibling of state.json inside root's control directory.
func LocalConfigPath(root string) string {
	return filepath.Join(ControlDir(root), "config.yaml")
}

func defaultConfigLocations() []string {
	var locs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		locs = append(locs, filepath.Join(xdg, "vt", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		locs = append(locs, filepath.Join(home, ".config", "vt", "config.yaml"))
	}
	return locs
}

// applyEnvOverrides lets the API_KEY environment variable override a
// configured apiKey.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("API_KEY"); v != "" {
		c.APIKey = v
	}
}
