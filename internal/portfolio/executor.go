// Package portfolio validates and applies trades against the player's ledger.
// The Executor is the only writer of ledger cash, holdings and shorts.
package portfolio

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"RainbowMarket/internal/market"
	"RainbowMarket/internal/model"
)

// MarginRatio is the share of a short's notional held back as margin.
var MarginRatio = decimal.New(5, -1)

// Result describes a completed trade.
type Result struct {
	Record         model.TradeRecord
	Realized       decimal.Decimal // sell and cover only
	MarginReturned decimal.Decimal // cover only
	CashDelta      decimal.Decimal
}

// Observer is notified after every successful trade.
type Observer interface {
	TradeCompleted(res *Result)
}

// Executor applies trades to a ledger using catalog prices.
type Executor struct {
	ledger    *model.Ledger
	catalog   *market.Catalog
	observers []Observer
}

// NewExecutor creates an Executor over the given ledger and catalog.
func NewExecutor(ledger *model.Ledger, catalog *market.Catalog, observers ...Observer) *Executor {
	if ledger.Stocks == nil {
		ledger.Stocks = make(map[string]*model.Holding)
	}
	if ledger.Bonds == nil {
		ledger.Bonds = make(map[string]*model.Holding)
	}
	if ledger.Shorts == nil {
		ledger.Shorts = make(map[string]*model.ShortPosition)
	}
	return &Executor{ledger: ledger, catalog: catalog, observers: observers}
}

// Ledger returns the ledger the executor writes to.
func (e *Executor) Ledger() *model.Ledger { return e.ledger }

// Buy acquires qty units at the current price and re-averages the holding cost.
func (e *Executor) Buy(day int, kind model.Kind, code string, qty decimal.Decimal) (*Result, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, qty)
	}
	inst, err := e.instrument(kind, code)
	if err != nil {
		return nil, err
	}
	price := inst.Price()
	cost := price.Mul(qty)
	if e.ledger.Cash.LessThan(cost) {
		return nil, fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds, cost, e.ledger.Cash)
	}

	holdings := e.ledger.HoldingsFor(kind)
	if h, ok := holdings[code]; ok {
		total := h.Amount.Add(qty)
		h.AvgPrice = h.AvgPrice.Mul(h.Amount).Add(cost).Div(total)
		h.Amount = total
	} else {
		holdings[code] = &model.Holding{Amount: qty, AvgPrice: price}
	}
	e.ledger.Cash = e.ledger.Cash.Sub(cost)

	return e.complete(day, kind, code, model.ActionBuy, qty, price, &Result{CashDelta: cost.Neg()}), nil
}

// Sell disposes of qty units at the current price. The average cost is left unchanged.
func (e *Executor) Sell(day int, kind model.Kind, code string, qty decimal.Decimal) (*Result, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, qty)
	}
	inst, err := e.instrument(kind, code)
	if err != nil {
		return nil, err
	}
	holdings := e.ledger.HoldingsFor(kind)
	h, ok := holdings[code]
	if !ok || h.Amount.LessThan(qty) {
		held := decimal.Zero
		if ok {
			held = h.Amount
		}
		return nil, fmt.Errorf("%w: %s holds %s, requested %s", ErrInsufficientHoldings, code, held, qty)
	}

	price := inst.Price()
	proceeds := price.Mul(qty)
	realized := price.Sub(h.AvgPrice).Mul(qty)
	h.Amount = h.Amount.Sub(qty)
	if !h.Amount.IsPositive() {
		delete(holdings, code)
	}
	e.ledger.Cash = e.ledger.Cash.Add(proceeds)

	return e.complete(day, kind, code, model.ActionSell, qty, price, &Result{Realized: realized, CashDelta: proceeds}), nil
}

// OpenShort borrows and sells qty units of a stock. The sale proceeds are
// credited minus the margin held back.
func (e *Executor) OpenShort(day int, code string, qty decimal.Decimal) (*Result, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, qty)
	}
	inst, err := e.instrument(model.KindStock, code)
	if err != nil {
		return nil, err
	}
	price := inst.Price()
	notional := price.Mul(qty)
	margin := notional.Mul(MarginRatio)
	if e.ledger.Cash.LessThan(margin) {
		return nil, fmt.Errorf("%w: need %s, have %s", ErrInsufficientMargin, margin, e.ledger.Cash)
	}

	if pos, ok := e.ledger.Shorts[code]; ok {
		total := pos.Amount.Add(qty)
		pos.BorrowPrice = pos.BorrowPrice.Mul(pos.Amount).Add(notional).Div(total)
		pos.Amount = total
		pos.DayOpened = day
		pos.Margin = pos.Margin.Add(margin)
	} else {
		e.ledger.Shorts[code] = &model.ShortPosition{
			Amount:      qty,
			BorrowPrice: price,
			DayOpened:   day,
			Margin:      margin,
		}
	}
	credit := notional.Sub(margin)
	e.ledger.Cash = e.ledger.Cash.Add(credit)

	return e.complete(day, model.KindStock, code, model.ActionShort, qty, price, &Result{CashDelta: credit}), nil
}

// CoverShort buys back qty units of an open short. Margin is released in
// proportion to the covered share of the position and the buy-back is paid
// from cash, so the realized profit is (borrow - price) × qty. The sale
// proceeds were already credited by OpenShort.
func (e *Executor) CoverShort(day int, code string, qty decimal.Decimal) (*Result, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, qty)
	}
	inst, err := e.instrument(model.KindStock, code)
	if err != nil {
		return nil, err
	}
	pos, ok := e.ledger.Shorts[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchPosition, code)
	}
	if qty.GreaterThan(pos.Amount) {
		return nil, fmt.Errorf("%w: cover %s exceeds short %s", ErrInvalidQuantity, qty, pos.Amount)
	}
	price := inst.Price()
	cost := price.Mul(qty)
	if e.ledger.Cash.LessThan(cost) {
		return nil, fmt.Errorf("%w: need %s, have %s", ErrInsufficientCash, cost, e.ledger.Cash)
	}

	realized := pos.BorrowPrice.Sub(price).Mul(qty)
	returned := pos.Margin
	if qty.LessThan(pos.Amount) {
		returned = pos.Margin.Mul(qty).Div(pos.Amount)
	}
	pos.Amount = pos.Amount.Sub(qty)
	pos.Margin = pos.Margin.Sub(returned)
	if !pos.Amount.IsPositive() {
		delete(e.ledger.Shorts, code)
	}
	delta := returned.Sub(cost)
	e.ledger.Cash = e.ledger.Cash.Add(delta)

	return e.complete(day, model.KindStock, code, model.ActionCover, qty, price, &Result{
		Realized:       realized,
		MarginReturned: returned,
		CashDelta:      delta,
	}), nil
}

func (e *Executor) instrument(kind model.Kind, code string) (*model.Instrument, error) {
	inst, err := e.catalog.Get(code)
	if err != nil {
		return nil, err
	}
	if inst.Kind != kind {
		return nil, fmt.Errorf("%w: %s is not a %s", ErrUnknownInstrument, code, kind)
	}
	return inst, nil
}

func (e *Executor) complete(day int, kind model.Kind, code string, action model.Action, qty, price decimal.Decimal, res *Result) *Result {
	res.Record = model.TradeRecord{
		ID:     uuid.NewString(),
		Day:    day,
		Kind:   kind,
		Code:   code,
		Action: action,
		Amount: qty,
		Price:  price,
	}
	// the instrument was resolved during validation, so this cannot fail
	_ = e.catalog.RecordOperation(code, model.Operation{Day: day, Action: action, Amount: qty, Price: price})
	for _, o := range e.observers {
		o.TradeCompleted(res)
	}
	return res
}
