package persistence

import "encoding/json"

// The on-disk save record. Numbers are written as JSON numbers through
// json.Number so decimal values keep their exact digits.

type record struct {
	Player                  playerRecord  `json:"player"`
	Day                     int           `json:"day"`
	TradeHistory            []tradeRecord `json:"trade_history"`
	TotalAssetsHistory      []json.Number `json:"total_assets_history"`
	StocksBondsValueHistory []json.Number `json:"stocks_bonds_value_history"`
	Market                  marketRecord  `json:"market"`
}

type playerRecord struct {
	Cash            json.Number              `json:"cash"`
	Debt            json.Number              `json:"debt"`
	Level           int                      `json:"level"`
	Exp             int                      `json:"exp"`
	ExpToNextLevel  int                      `json:"exp_to_next_level"`
	FeatureUnlocked bool                     `json:"feature_unlocked"`
	Stocks          map[string]holdingRecord `json:"stocks"`
	Bonds           map[string]holdingRecord `json:"bonds"`
	// [amount, borrow_price, day_opened, margin]
	Shorts map[string][]json.Number `json:"shorts"`
}

type holdingRecord struct {
	Amount   json.Number `json:"amount"`
	AvgPrice json.Number `json:"avg_price"`
}

type tradeRecord struct {
	ID     string      `json:"id,omitempty"`
	Day    int         `json:"day"`
	Type   string      `json:"type"`
	Code   string      `json:"code"`
	Action string      `json:"action"`
	Amount json.Number `json:"amount"`
	Price  json.Number `json:"price"`
}

type marketRecord struct {
	Stocks []stockRecord `json:"stocks"`
	Bonds  []bondRecord  `json:"bonds"`
}

type stockRecord struct {
	Code       string            `json:"code"`
	BasePrice  json.Number       `json:"base_price"`
	Volatility float64           `json:"volatility"`
	Income     json.Number       `json:"income"`
	History    []pricePoint      `json:"history"`
	Operations []operationRecord `json:"operations"`
}

type bondRecord struct {
	Code       string            `json:"code"`
	Price      json.Number       `json:"price"`
	YieldRate  float64           `json:"yield_rate"`
	Duration   int               `json:"duration"`
	History    []pricePoint      `json:"history"`
	Operations []operationRecord `json:"operations"`
}

type pricePoint struct {
	Day   int         `json:"day"`
	Price json.Number `json:"price"`
}

type operationRecord struct {
	Day    int         `json:"day"`
	Action string      `json:"action"`
	Amount json.Number `json:"amount"`
	Price  json.Number `json:"price"`
}
