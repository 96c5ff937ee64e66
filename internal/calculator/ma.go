package calculator

import (
	"errors"

	"RainbowMarket/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// Closes converts a price history into float64 closes, oldest first.
func Closes(history []model.PricePoint) []float64 {
	closes := make([]float64, len(history))
	for i, p := range history {
		closes[i] = p.Price.InexactFloat64()
	}
	return closes
}

// Indicators computes the report indicators for one instrument's history.
// Moving averages that lack data fall back to the current price.
func Indicators(history []model.PricePoint) (*model.PriceIndicators, error) {
	if len(history) == 0 {
		return nil, errors.New("empty price history")
	}
	closes := Closes(history)
	current := closes[len(closes)-1]

	ind := &model.PriceIndicators{CurrentPrice: current, SMA7: current, SMA28: current}
	if v, err := CalculateSMA(closes, 7); err == nil {
		ind.SMA7 = v
	}
	if v, err := CalculateSMA(closes, 28); err == nil {
		ind.SMA28 = v
	}

	rsi, err := CalculateRSI(closes, 14)
	if err != nil {
		return nil, err
	}
	ind.RSI14 = rsi

	high, low, err := Calculate30DayRange(closes)
	if err != nil {
		return nil, err
	}
	ind.High30d, ind.Low30d = high, low

	pos, err := CalculateRangePosition(current, high, low)
	if err != nil {
		return nil, err
	}
	ind.Position30d = pos
	return ind, nil
}
