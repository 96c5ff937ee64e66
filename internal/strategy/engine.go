// Package strategy turns price indicators into an advisory signal.
// Positive scores lean towards buying, negative towards selling or shorting.
package strategy

import "RainbowMarket/internal/model"

// Tiers maps a minimum total score to a label, highest first.
var Tiers = []struct {
	MinScore float64
	Label    string
}{
	{1.2, "strong buy"},
	{0.5, "buy"},
	{-0.5, "hold"},
	{-1.2, "reduce"},
}

// DefaultTier is the label for scores below every tier.
const DefaultTier = "sell or short"

func mapTier(totalScore float64) string {
	for _, t := range Tiers {
		if totalScore >= t.MinScore {
			return t.Label
		}
	}
	return DefaultTier
}

// Evaluate computes the signal for one instrument.
func Evaluate(code string, ind *model.PriceIndicators) *model.TradeSignal {
	f1 := scoreSMADeviation(ind)
	f2 := scoreRSI(ind)
	f4 := scoreTrend(ind)

	// range position depends on the others
	otherAvg := (f1.RawScore + f2.RawScore + f4.RawScore) / 3.0
	f3 := scoreRangePosition(ind, otherAvg)

	total := f1.Weighted + f2.Weighted + f3.Weighted + f4.Weighted
	sig := &model.TradeSignal{
		Code:       code,
		Factors:    []model.FactorScore{f1, f2, f3, f4},
		TotalScore: total,
		Label:      mapTier(total),
	}
	if ind.RSI14 > 85 {
		sig.WarningMsg = "RSI above 85, consider taking profit"
	}
	return sig
}
