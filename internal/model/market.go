package model

import "github.com/shopspring/decimal"

// Kind distinguishes the two instrument classes.
type Kind string

const (
	KindStock Kind = "stock"
	KindBond  Kind = "bond"
)

// MaxHistory bounds both the price history and the operations log of an instrument.
const MaxHistory = 365

// PricePoint is one daily price observation.
type PricePoint struct {
	Day   int
	Price decimal.Decimal
}

// Operation is a trade applied to an instrument, kept for per-instrument display.
type Operation struct {
	Day    int
	Action Action
	Amount decimal.Decimal
	Price  decimal.Decimal
}

// Instrument is a tradable stock or bond.
type Instrument struct {
	Kind Kind
	Code string
	Name string

	BasePrice  decimal.Decimal
	Volatility float64         // stocks
	Income     decimal.Decimal // stocks, per unit per day

	YieldRate    float64 // bonds, annual
	DurationDays int     // bonds

	History    []PricePoint
	Operations []Operation
}

// Price returns the last observed price.
func (i *Instrument) Price() decimal.Decimal {
	if len(i.History) == 0 {
		return i.BasePrice
	}
	return i.History[len(i.History)-1].Price
}

// AppendPrice records a new observation, evicting the oldest beyond MaxHistory.
func (i *Instrument) AppendPrice(day int, price decimal.Decimal) {
	i.History = append(i.History, PricePoint{Day: day, Price: price})
	if len(i.History) > MaxHistory {
		i.History = i.History[len(i.History)-MaxHistory:]
	}
}

// AppendOperation records a trade, evicting the oldest beyond MaxHistory.
func (i *Instrument) AppendOperation(op Operation) {
	i.Operations = append(i.Operations, op)
	if len(i.Operations) > MaxHistory {
		i.Operations = i.Operations[len(i.Operations)-MaxHistory:]
	}
}
