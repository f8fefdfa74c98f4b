// Package config reads and writes the per-directory riskmap configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// Config represents the flat riskmap configuration
type Config struct {
	Version  string `json:"version"`
	Document string `json:"document,omitempty"` // path of the current assessment
	Database string `json:"database,omitempty"` // overrides ~/.riskmap/riskmap.db
}

// LoadConfig reads .riskmap/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".riskmap", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault reads the config, returning an empty one when none exists yet.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{Version: CurrentVersion}, nil
	}
	return cfg, err
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".riskmap")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .riskmap dir: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ResolveDocument picks the document to work on: the explicit flag wins,
// then the configured document. Relative configured paths are relative to dir.
func ResolveDocument(dir, flag string, cfg *Config) string {
	if flag != "" {
		return flag
	}
	if cfg == nil || cfg.Document == "" {
		return ""
	}
	if filepath.IsAbs(cfg.Document) {
		return cfg.Document
	}
	return filepath.Join(dir, cfg.Document)
}
