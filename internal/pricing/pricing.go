// Package pricing generates the next daily price of an instrument.
package pricing

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

const (
	// MaxChange clamps the daily fractional change of a stock.
	MaxChange = 0.5
	// StockFloorRatio is the stock price floor as a fraction of the base price.
	StockFloorRatio = 0.2
	// BondNoise is the standard deviation of the daily bond price change.
	BondNoise = 0.05
)

// BondFloor is the fixed minimum bond price.
var BondFloor = decimal.NewFromInt(100)

// Source is the random draw used by the price model. *rand.Rand satisfies it.
type Source interface {
	NormFloat64() float64
}

// NewSource returns a seeded source.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// StockFloor is the lowest price a stock of the given base price may reach,
// rounded up to a whole unit.
func StockFloor(base decimal.Decimal) decimal.Decimal {
	return base.Mul(decimal.NewFromFloat(StockFloorRatio)).Ceil()
}

// NextStockPrice draws the next stock price. The fractional change is
// clamped to [-MaxChange, MaxChange] and the result floored at StockFloor(base).
func NextStockPrice(src Source, current, base decimal.Decimal, volatility, seasonMod float64) decimal.Decimal {
	change := src.NormFloat64() * volatility * seasonMod
	if change > MaxChange {
		change = MaxChange
	} else if change < -MaxChange {
		change = -MaxChange
	}
	next := current.Mul(decimal.NewFromFloat(1 + change)).Floor()
	if floor := StockFloor(base); next.LessThan(floor) {
		return floor
	}
	return next
}

// NextBondPrice draws the next bond price. No clamp is applied beyond BondFloor.
func NextBondPrice(src Source, current decimal.Decimal, seasonMod float64) decimal.Decimal {
	change := src.NormFloat64() * BondNoise * seasonMod
	next := current.Mul(decimal.NewFromFloat(1 + change)).Floor()
	if next.LessThan(BondFloor) {
		return BondFloor
	}
	return next
}
