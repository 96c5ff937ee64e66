package model

import "github.com/shopspring/decimal"

// Action is what a trade did.
type Action string

const (
	ActionBuy   Action = "buy"
	ActionSell  Action = "sell"
	ActionShort Action = "short"
	ActionCover Action = "cover"
)

// TradeRecord is an immutable entry of the session trade history.
type TradeRecord struct {
	ID     string
	Day    int
	Kind   Kind
	Code   string
	Action Action
	Amount decimal.Decimal
	Price  decimal.Decimal
}

// Value is amount × price.
func (t TradeRecord) Value() decimal.Decimal {
	return t.Amount.Mul(t.Price)
}
