package calculator

import (
	"errors"
	"math"
)

// Calculate30DayRange scans the most recent 30 simulated days and returns the high and low.
func Calculate30DayRange(closes []float64) (high, low float64, err error) {
	if len(closes) == 0 {
		return 0, 0, errors.New("no prices provided")
	}
	start := max(len(closes)-30, 0)
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range closes[start:] {
		high = math.Max(high, c)
		low = math.Min(low, c)
	}
	return high, low, nil
}

// CalculateRangePosition returns where the current price sits within the range (0.0~1.0).
func CalculateRangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	return math.Min(math.Max(pos, 0), 1), nil
}
