package strategy

import (
	"fmt"
	"math"

	"RainbowMarket/internal/model"
)

// band maps a value to a score through ascending thresholds: values at or
// below bounds[i] score scores[i], anything above the last bound scores last.
func band(v float64, bounds, scores []float64, last float64) float64 {
	for i, b := range bounds {
		if v <= b {
			return scores[i]
		}
	}
	return last
}

var steps = []float64{2.0, 1.5, 1.0, 0.5, 0, -0.5, -1.0, -1.5}

func factor(name string, score, weight float64, commentary string) model.FactorScore {
	return model.FactorScore{
		Name:       name,
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: commentary,
	}
}

// scoreSMADeviation scores how far the price sits from its 28-day average.
// Weight: 0.40
func scoreSMADeviation(ind *model.PriceIndicators) model.FactorScore {
	if ind.SMA28 == 0 {
		return factor("SMA28 deviation", 0, 0.40, "SMA28 unavailable")
	}
	dev := (ind.CurrentPrice - ind.SMA28) / ind.SMA28 * 100
	score := band(dev, []float64{-20, -10, -5, 0, 5, 10, 15, 20}, steps, -2.0)
	return factor("SMA28 deviation", score, 0.40, fmt.Sprintf("%+.1f%%", dev))
}

// scoreRSI scores the 14-day RSI.
// Weight: 0.30
func scoreRSI(ind *model.PriceIndicators) model.FactorScore {
	score := band(ind.RSI14, []float64{25, 30, 40, 45, 55, 60, 70, 80}, steps, -2.0)
	return factor("RSI14", score, 0.30, fmt.Sprintf("RSI=%.0f", ind.RSI14))
}

// scoreRangePosition scores where the price sits in its 30-day range.
// Weight: 0.15
// Above 95% only reaches -2 when the other factors agree (avg < -1).
func scoreRangePosition(ind *model.PriceIndicators, otherAvg float64) model.FactorScore {
	pos := ind.Position30d * 100
	score := band(pos, []float64{10, 20, 30, 40, 60, 70, 80, 95}, steps, -1.0)
	if pos > 95 && otherAvg < -1 {
		score = -2.0
	}
	return factor("30d position", score, 0.15, fmt.Sprintf("%.0f%%", pos))
}

// scoreTrend scores moving-average alignment and 30-day extremes.
// Weight: 0.15
func scoreTrend(ind *model.PriceIndicators) model.FactorScore {
	bullish := ind.CurrentPrice > ind.SMA7 && ind.SMA7 > ind.SMA28
	bearish := ind.CurrentPrice < ind.SMA7 && ind.SMA7 < ind.SMA28

	nearHigh := ind.High30d > 0 && math.Abs(ind.CurrentPrice-ind.High30d)/ind.High30d < 0.01
	nearLow := ind.Low30d > 0 && math.Abs(ind.CurrentPrice-ind.Low30d)/ind.Low30d < 0.01

	switch {
	case bullish && nearHigh:
		return factor("trend", 1.5, 0.15, "uptrend at 30d high")
	case bullish:
		return factor("trend", 1.0, 0.15, "uptrend")
	case bearish && nearLow:
		return factor("trend", -1.0, 0.15, "downtrend at 30d low")
	case bearish:
		return factor("trend", -0.5, 0.15, "downtrend")
	default:
		return factor("trend", 0, 0.15, "sideways")
	}
}
