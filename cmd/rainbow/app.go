package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"RainbowMarket/internal/config"
	"RainbowMarket/internal/game"
	"RainbowMarket/internal/logger"
	"RainbowMarket/internal/persistence"
	"RainbowMarket/internal/pricing"
	"RainbowMarket/internal/recorder"
)

// A CLI invocation is short lived, so global flags are fine.
var (
	configPath = flag.String("config", defaultConfigPath(), "Path to the YAML config file")
	slotFlag   = flag.String("slot", "", "Save slot to use (overrides config)")
)

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// app is everything a command needs.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	rec     recorder.Recorder
	session *game.Session
}

func openApp() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *slotFlag != "" {
		cfg.Game.Slot = *slotFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	session, err := game.Open(game.Options{
		Store:        persistence.NewStore(cfg.Game.SaveDir, log),
		Slot:         cfg.Game.Slot,
		Recorder:     rec,
		Rand:         pricing.NewSource(seed),
		StartingCash: decimal.NewFromInt(cfg.Game.StartingCash),
		StartingDebt: decimal.NewFromInt(cfg.Game.StartingDebt),
		Settlement:   cfg.Settlement.Enabled,
		InterestRate: decimal.NewFromFloat(cfg.Settlement.DebtInterestRate),
		Log:          log,
	})
	if err != nil {
		rec.Close()
		return nil, err
	}
	return &app{cfg: cfg, log: log, rec: rec, session: session}, nil
}

func (a *app) Close() {
	if err := a.rec.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close recorder")
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
}
