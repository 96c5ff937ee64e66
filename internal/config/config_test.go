package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Game.SaveDir != "saves" || cfg.Game.Slot != "default" {
		t.Errorf("unexpected game defaults: %+v", cfg.Game)
	}
	if cfg.Game.StartingCash != 10_000_000_000_000 {
		t.Errorf("expected default cash 10^13, got %d", cfg.Game.StartingCash)
	}
	if !cfg.Settlement.Enabled || cfg.Settlement.DebtInterestRate != 0.0001 {
		t.Errorf("unexpected settlement defaults: %+v", cfg.Settlement)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
game:
  slot: career
  seed: 7
settlement:
  enabled: false
log:
  format: json
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RAINBOW_SAVE_DIR", "/tmp/rainbow")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Game.Slot != "career" || cfg.Game.Seed != 7 {
		t.Errorf("file values not applied: %+v", cfg.Game)
	}
	if cfg.Settlement.Enabled {
		t.Error("expected settlement disabled by file")
	}
	if cfg.Game.SaveDir != "/tmp/rainbow" || cfg.Log.Level != "debug" {
		t.Errorf("env overrides not applied: dir=%s level=%s", cfg.Game.SaveDir, cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json format, got %s", cfg.Log.Format)
	}
}

func TestLoadBadSeed(t *testing.T) {
	t.Setenv("RAINBOW_SEED", "abc")
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for non-numeric seed")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty slot", func(c *Config) { c.Game.Slot = "" }},
		{"slot with separator", func(c *Config) { c.Game.Slot = "a/b" }},
		{"negative cash", func(c *Config) { c.Game.StartingCash = -1 }},
		{"rate above one", func(c *Config) { c.Settlement.DebtInterestRate = 2 }},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
