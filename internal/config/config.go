package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Game struct {
		SaveDir      string `yaml:"save_dir" default:"saves" validate:"required"`
		Slot         string `yaml:"slot" default:"default" validate:"required,excludesall=/\\"`
		Seed         int64  `yaml:"seed"` // 0 seeds from the clock
		StartingCash int64  `yaml:"starting_cash" default:"10000000000000" validate:"gte=0"`
		StartingDebt int64  `yaml:"starting_debt" default:"1000000000000" validate:"gte=0"`
	} `yaml:"game"`
	Settlement struct {
		Enabled          bool    `yaml:"enabled" default:"true"`
		DebtInterestRate float64 `yaml:"debt_interest_rate" default:"0.0001" validate:"gte=0,lte=1"`
	} `yaml:"settlement"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"` // empty disables the journal
	} `yaml:"database"`
	Autopilot struct {
		Cron string `yaml:"cron" default:"*/30 * * * * *" validate:"required"`
	} `yaml:"autopilot"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("RAINBOW_SAVE_DIR"); v != "" {
		cfg.Game.SaveDir = v
	}
	if v := os.Getenv("RAINBOW_SLOT"); v != "" {
		cfg.Game.Slot = v
	}
	if v := os.Getenv("RAINBOW_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse RAINBOW_SEED: %w", err)
		}
		cfg.Game.Seed = seed
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}

// Validate checks field ranges and required values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
