package model

// PriceIndicators holds indicators computed from an instrument's price history.
type PriceIndicators struct {
	CurrentPrice float64
	SMA7         float64
	SMA28        float64
	RSI14        float64
	High30d      float64
	Low30d       float64
	Position30d  float64 // 0.0 ~ 1.0
}

// FactorScore is one scored input of a trade signal.
type FactorScore struct {
	Name       string
	RawScore   float64 // -2 ~ +2
	Weight     float64
	Weighted   float64
	Commentary string
}

// TradeSignal is an advisory reading of an instrument's indicators.
type TradeSignal struct {
	Code       string
	Factors    []FactorScore
	TotalScore float64
	Label      string
	WarningMsg string
}
