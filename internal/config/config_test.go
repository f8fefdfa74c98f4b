package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{Document: "presse.json", Database: "/tmp/riskmap.db"}
	if err := SaveConfig(tmpDir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("expected version %s, got %s", CurrentVersion, loaded.Version)
	}
	if loaded.Document != "presse.json" || loaded.Database != "/tmp/riskmap.db" {
		t.Errorf("unexpected config: %+v", loaded)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("expected error for missing config")
	}

	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Document != "" || cfg.Version != CurrentVersion {
		t.Errorf("unexpected default config: %+v", cfg)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	cfgDir := filepath.Join(tmpDir, ".riskmap")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadOrDefault(tmpDir); err == nil {
		t.Error("expected parse error to surface")
	}
}

func TestResolveDocument(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		cfg      *Config
		expected string
	}{
		{name: "flag wins", flag: "other.json", cfg: &Config{Document: "presse.json"}, expected: "other.json"},
		{name: "relative configured path", cfg: &Config{Document: "presse.json"}, expected: filepath.Join("/work", "presse.json")},
		{name: "absolute configured path", cfg: &Config{Document: "/data/presse.json"}, expected: "/data/presse.json"},
		{name: "nothing configured", cfg: &Config{}, expected: ""},
		{name: "no config", cfg: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDocument("/work", tt.flag, tt.cfg)
			if got != tt.expected {
				t.Errorf("ResolveDocument() = %q, want %q", got, tt.expected)
			}
		})
	}
}
