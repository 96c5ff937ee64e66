package model

import "github.com/shopspring/decimal"

// Holding is a long position tracked at average cost.
type Holding struct {
	Amount   decimal.Decimal
	AvgPrice decimal.Decimal
}

// ShortPosition is a borrowed-and-sold position.
// Margin is the absolute amount of cash held back against it.
type ShortPosition struct {
	Amount      decimal.Decimal
	BorrowPrice decimal.Decimal
	DayOpened   int
	Margin      decimal.Decimal
}

// Progress tracks experience and levels.
type Progress struct {
	Level           int
	Exp             int
	ExpToNextLevel  int
	FeatureUnlocked bool
}

// Ledger is the player's whole economic state.
type Ledger struct {
	Cash   decimal.Decimal
	Debt   decimal.Decimal
	Stocks map[string]*Holding
	Bonds  map[string]*Holding
	Shorts map[string]*ShortPosition
	Progress
}

// Default starting values for a new game.
var (
	DefaultCash = decimal.NewFromInt(10_000_000_000_000)
	DefaultDebt = decimal.NewFromInt(1_000_000_000_000)
)

const (
	StartingLevel     = 1
	StartingThreshold = 100
	UnlockLevel       = 10
)

// NewLedger returns an empty ledger holding the given cash and debt.
func NewLedger(cash, debt decimal.Decimal) *Ledger {
	return &Ledger{
		Cash:   cash,
		Debt:   debt,
		Stocks: make(map[string]*Holding),
		Bonds:  make(map[string]*Holding),
		Shorts: make(map[string]*ShortPosition),
		Progress: Progress{
			Level:          StartingLevel,
			ExpToNextLevel: StartingThreshold,
		},
	}
}

// HoldingsFor returns the long-holding map for an instrument kind.
func (l *Ledger) HoldingsFor(kind Kind) map[string]*Holding {
	switch kind {
	case KindStock:
		return l.Stocks
	case KindBond:
		return l.Bonds
	}
	return nil
}

// Clone returns a deep copy.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		Cash:     l.Cash,
		Debt:     l.Debt,
		Stocks:   make(map[string]*Holding, len(l.Stocks)),
		Bonds:    make(map[string]*Holding, len(l.Bonds)),
		Shorts:   make(map[string]*ShortPosition, len(l.Shorts)),
		Progress: l.Progress,
	}
	for k, h := range l.Stocks {
		hh := *h
		c.Stocks[k] = &hh
	}
	for k, h := range l.Bonds {
		hh := *h
		c.Bonds[k] = &hh
	}
	for k, s := range l.Shorts {
		ss := *s
		c.Shorts[k] = &ss
	}
	return c
}
