package recorder

// TradeEvent is a completed trade.
type TradeEvent struct {
	ID        string
	Slot      string
	Day       int
	Kind      string // "stock" or "bond"
	Code      string
	Action    string // "buy", "sell", "short", "cover"
	Amount    float64
	Price     float64
	Realized  float64
	CashAfter float64
}

// DayEvent is the end-of-day valuation snapshot.
type DayEvent struct {
	Slot          string
	Day           int
	Season        string
	Cash          float64
	Debt          float64
	HoldingsValue float64
	TotalAssets   float64
	Dividends     float64
	Coupons       float64
	Interest      float64
}

// Recorder journals session history for later analysis.
type Recorder interface {
	RecordTrade(evt *TradeEvent) error
	RecordDay(evt *DayEvent) error
	Close() error
}
