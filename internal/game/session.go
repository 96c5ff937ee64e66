// Package game drives one simulation session: it owns the catalog, the ledger
// and the trade history for a save slot and autosaves after every change.
package game

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"RainbowMarket/internal/market"
	"RainbowMarket/internal/model"
	"RainbowMarket/internal/persistence"
	"RainbowMarket/internal/portfolio"
	"RainbowMarket/internal/progression"
	"RainbowMarket/internal/recorder"
	"RainbowMarket/internal/season"
)

// Options configures a Session.
type Options struct {
	Store        *persistence.Store
	Slot         string
	Recorder     recorder.Recorder // nil means no journal
	Rand         market.Rand
	StartingCash decimal.Decimal
	StartingDebt decimal.Decimal
	Settlement   bool
	InterestRate decimal.Decimal
	Log          zerolog.Logger
}

// Session is a running game bound to one save slot. All methods are safe for
// concurrent use; operations are serialized.
type Session struct {
	mu sync.Mutex

	opts     Options
	slot     string
	day      int
	catalog  *market.Catalog
	ledger   *model.Ledger
	executor *portfolio.Executor
	tracker  *progression.Tracker

	trades        []model.TradeRecord
	totalAssets   []decimal.Decimal
	holdingsValue []decimal.Decimal

	log zerolog.Logger
}

// Open loads the slot, or starts a new game when the slot does not exist or
// cannot be parsed.
func Open(opts Options) (*Session, error) {
	if opts.Rand == nil {
		return nil, errors.New("game: nil random source")
	}
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.Slot == "" {
		opts.Slot = persistence.DefaultSlot
	}
	s := &Session{opts: opts, log: opts.Log}
	if err := s.load(opts.Slot); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the running game with the contents of a slot. The session
// keeps that slot for subsequent autosaves.
func (s *Session) Load(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(slot)
}

func (s *Session) load(slot string) error {
	snap, err := s.opts.Store.Load(slot)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		s.log.Info().Str("slot", slot).Msg("no save found, starting new game")
		snap = nil
	case errors.Is(err, persistence.ErrCorruptRecord):
		s.log.Warn().Err(err).Str("slot", slot).Msg("save unreadable, starting new game")
		snap = nil
	default:
		return fmt.Errorf("load game: %w", err)
	}

	s.slot = slot
	s.catalog = market.NewCatalog(s.opts.Rand)
	s.day = 0
	s.trades = nil
	s.totalAssets = nil
	s.holdingsValue = nil

	if snap == nil {
		s.ledger = model.NewLedger(s.opts.StartingCash, s.opts.StartingDebt)
	} else {
		s.apply(snap)
	}
	s.tracker = progression.NewTracker(&s.ledger.Progress, s.log)
	s.executor = portfolio.NewExecutor(s.ledger, s.catalog, s.tracker)
	return nil
}

func (s *Session) apply(snap *persistence.Snapshot) {
	s.day = snap.Day
	s.ledger = snap.Ledger
	s.trades = snap.Trades
	s.totalAssets = snap.TotalAssets
	s.holdingsValue = snap.HoldingsValue

	for _, inst := range snap.Instruments {
		if !s.catalog.Restore(inst) {
			s.log.Warn().Str("code", inst.Code).Msg("unknown instrument in save ignored")
		}
	}
	s.dropUnknown(model.KindStock, s.ledger.Stocks)
	s.dropUnknown(model.KindBond, s.ledger.Bonds)
	for code := range s.ledger.Shorts {
		if inst, err := s.catalog.Get(code); err != nil || inst.Kind != model.KindStock {
			s.log.Warn().Str("code", code).Msg("short on unknown instrument ignored")
			delete(s.ledger.Shorts, code)
		}
	}
}

func (s *Session) dropUnknown(kind model.Kind, holdings map[string]*model.Holding) {
	for code := range holdings {
		if inst, err := s.catalog.Get(code); err != nil || inst.Kind != kind {
			s.log.Warn().Str("code", code).Str("kind", string(kind)).Msg("holding of unknown instrument ignored")
			delete(holdings, code)
		}
	}
}

// Slot returns the save slot the session writes to.
func (s *Session) Slot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot
}

// Day returns the current simulated day.
func (s *Session) Day() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

// Season returns the season of the current day.
func (s *Session) Season() season.Season {
	s.mu.Lock()
	defer s.mu.Unlock()
	return season.For(s.day)
}

// Save writes the session to its slot.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Session) save() error {
	snap := &persistence.Snapshot{
		Day:           s.day,
		Ledger:        s.ledger,
		Trades:        s.trades,
		TotalAssets:   s.totalAssets,
		HoldingsValue: s.holdingsValue,
		Instruments:   s.catalog.Instruments(""),
	}
	if err := s.opts.Store.Save(s.slot, snap); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

// autosave persists after a state change. Failures are logged; the change
// itself stands.
func (s *Session) autosave() {
	if err := s.save(); err != nil {
		s.log.Error().Err(err).Str("slot", s.slot).Msg("autosave failed")
	}
}

func appendBounded(series []decimal.Decimal, v decimal.Decimal) []decimal.Decimal {
	series = append(series, v)
	if len(series) > persistence.MaxValuationHistory {
		series = series[len(series)-persistence.MaxValuationHistory:]
	}
	return series
}
