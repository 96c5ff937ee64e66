// Package market holds the fixed instrument catalog and advances its prices
// once per simulated day.
package market

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"RainbowMarket/internal/model"
	"RainbowMarket/internal/pricing"
	"RainbowMarket/internal/season"
)

// ErrUnknownInstrument is returned for codes not in the catalog.
var ErrUnknownInstrument = errors.New("unknown instrument")

// stockSpec is the static definition of a stock. The base price is drawn
// from the band matching its volatility when the catalog is created.
type stockSpec struct {
	Code       string
	Name       string
	Volatility float64
	Income     int64
}

type bondSpec struct {
	Code         string
	Name         string
	MinPrice     int64
	MaxPrice     int64
	YieldRate    float64
	DurationDays int
}

var stockSpecs = []stockSpec{
	{"APLE", "Apple Orchard Tech", 0.07, 40},
	{"MSFX", "Microsoft Effects", 0.10, 30},
	{"GOOD", "Goodle Search", 0.15, 25},
	{"AMZE", "Amazing Commerce", 0.20, 15},
	{"NVDO", "Nvidio Quantum", 0.30, 5},
	{"TSLA", "Teslar Motors", 0.35, 0},
	{"META", "Metaverse Gallery", 0.40, 0},
}

var bondSpecs = []bondSpec{
	{"GOV10", "Treasury 10Y", 900, 1100, 0.03, 3650},
	{"CORP5", "Rainbow Corp 5Y", 800, 1000, 0.06, 1825},
}

// priceBand returns the [min, max) base price band for a volatility tier.
// Calmer names trade at higher prices.
func priceBand(volatility float64) (int64, int64) {
	switch {
	case volatility < 0.15:
		return 5000, 10000
	case volatility < 0.3:
		return 1000, 5000
	default:
		return 100, 1000
	}
}

// Catalog owns the instrument set.
type Catalog struct {
	rng         Rand
	instruments map[string]*model.Instrument
	order       []string
}

// Rand is the randomness the catalog needs: normal draws for prices and
// uniform draws for starting prices.
type Rand interface {
	pricing.Source
	Int63n(n int64) int64
}

// NewCatalog creates the fixed instrument set with randomized starting prices.
// The starting price is recorded as day 0 history.
func NewCatalog(rng Rand) *Catalog {
	c := &Catalog{rng: rng, instruments: make(map[string]*model.Instrument)}
	for _, s := range stockSpecs {
		lo, hi := priceBand(s.Volatility)
		base := decimal.NewFromInt(lo + rng.Int63n(hi-lo))
		c.add(&model.Instrument{
			Kind:       model.KindStock,
			Code:       s.Code,
			Name:       s.Name,
			BasePrice:  base,
			Volatility: s.Volatility,
			Income:     decimal.NewFromInt(s.Income),
		})
	}
	for _, b := range bondSpecs {
		start := decimal.NewFromInt(b.MinPrice + rng.Int63n(b.MaxPrice-b.MinPrice))
		c.add(&model.Instrument{
			Kind:         model.KindBond,
			Code:         b.Code,
			Name:         b.Name,
			BasePrice:    start,
			YieldRate:    b.YieldRate,
			DurationDays: b.DurationDays,
		})
	}
	return c
}

func (c *Catalog) add(inst *model.Instrument) {
	inst.AppendPrice(0, inst.BasePrice)
	c.instruments[inst.Code] = inst
	c.order = append(c.order, inst.Code)
}

// Advance closes the given day: every instrument moves under that day's season
// and the new price is stamped day+1. It returns the season applied.
func (c *Catalog) Advance(day int) season.Season {
	s := season.For(day)
	for _, code := range c.order {
		inst := c.instruments[code]
		var next decimal.Decimal
		switch inst.Kind {
		case model.KindStock:
			next = pricing.NextStockPrice(c.rng, inst.Price(), inst.BasePrice, inst.Volatility, s.StockVolatility)
		case model.KindBond:
			next = pricing.NextBondPrice(c.rng, inst.Price(), s.BondYield)
		}
		inst.AppendPrice(day+1, next)
	}
	return s
}

// Get returns the instrument with the given code.
func (c *Catalog) Get(code string) (*model.Instrument, error) {
	inst, ok := c.instruments[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstrument, code)
	}
	return inst, nil
}

// CurrentPrice returns the last price of the instrument.
func (c *Catalog) CurrentPrice(code string) (decimal.Decimal, error) {
	inst, err := c.Get(code)
	if err != nil {
		return decimal.Zero, err
	}
	return inst.Price(), nil
}

// PriceHistory returns up to window most recent observations, oldest first.
func (c *Catalog) PriceHistory(code string, window int) ([]model.PricePoint, error) {
	inst, err := c.Get(code)
	if err != nil {
		return nil, err
	}
	h := inst.History
	if window >= 0 && len(h) > window {
		h = h[len(h)-window:]
	}
	out := make([]model.PricePoint, len(h))
	copy(out, h)
	return out, nil
}

// RecordOperation appends a trade to the instrument's operations log.
func (c *Catalog) RecordOperation(code string, op model.Operation) error {
	inst, err := c.Get(code)
	if err != nil {
		return err
	}
	inst.AppendOperation(op)
	return nil
}

// Restore replaces the per-game state of an instrument with persisted values:
// a stock's drawn base price, the history and the operations. Unknown codes
// are ignored and report false. An empty history keeps the generated starting
// price; a missing base keeps the generated base.
func (c *Catalog) Restore(saved *model.Instrument) bool {
	inst, ok := c.instruments[saved.Code]
	if !ok || inst.Kind != saved.Kind {
		return false
	}
	if inst.Kind == model.KindStock && saved.BasePrice.IsPositive() {
		inst.BasePrice = saved.BasePrice
	}
	history, ops := saved.History, saved.Operations
	if len(history) > 0 {
		sort.SliceStable(history, func(i, j int) bool { return history[i].Day < history[j].Day })
		if len(history) > model.MaxHistory {
			history = history[len(history)-model.MaxHistory:]
		}
		inst.History = history
	}
	if len(ops) > model.MaxHistory {
		ops = ops[len(ops)-model.MaxHistory:]
	}
	inst.Operations = ops
	return true
}

// Instruments returns the instruments in catalog order, optionally filtered by kind.
func (c *Catalog) Instruments(kind model.Kind) []*model.Instrument {
	out := make([]*model.Instrument, 0, len(c.order))
	for _, code := range c.order {
		inst := c.instruments[code]
		if kind == "" || inst.Kind == kind {
			out = append(out, inst)
		}
	}
	return out
}
