package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.Timer.Inspection != nil || cfg.Goals.Phase1 != nil {
		t.Fatal("expected zero config for missing file")
	}
}

func TestLoadConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[timer]
inspection = true
inspection-seconds = 12
splits = false

[goals]
phase1 = 3.0
rotations = 1.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timer.Inspection == nil || !*cfg.Timer.Inspection {
		t.Error("inspection not parsed")
	}
	if cfg.Timer.InspectionSeconds == nil || *cfg.Timer.InspectionSeconds != 12 {
		t.Error("inspection-seconds not parsed")
	}
	if cfg.Timer.Splits == nil || *cfg.Timer.Splits {
		t.Error("splits not parsed")
	}
	if cfg.Goals.Phase1 == nil || *cfg.Goals.Phase1 != 3.0 {
		t.Error("goals phase1 not parsed")
	}
	if cfg.Goals.Phase2 != nil {
		t.Error("absent goal must stay nil")
	}
	if cfg.Goals.Rotations == nil || *cfg.Goals.Rotations != 1.5 {
		t.Error("goals rotations not parsed")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[timer\ninspection ="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("malformed config must fail to decode")
	}
}
