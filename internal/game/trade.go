package game

import (
	"github.com/shopspring/decimal"

	"RainbowMarket/internal/model"
	"RainbowMarket/internal/portfolio"
	"RainbowMarket/internal/recorder"
)

// Buy acquires qty units of a stock or bond on the current day.
func (s *Session) Buy(kind model.Kind, code string, qty decimal.Decimal) (*portfolio.Result, error) {
	return s.trade(func(day int) (*portfolio.Result, error) {
		return s.executor.Buy(day, kind, code, qty)
	})
}

// Sell disposes of qty units of a long holding.
func (s *Session) Sell(kind model.Kind, code string, qty decimal.Decimal) (*portfolio.Result, error) {
	return s.trade(func(day int) (*portfolio.Result, error) {
		return s.executor.Sell(day, kind, code, qty)
	})
}

// OpenShort borrows and sells qty units of a stock.
func (s *Session) OpenShort(code string, qty decimal.Decimal) (*portfolio.Result, error) {
	return s.trade(func(day int) (*portfolio.Result, error) {
		return s.executor.OpenShort(day, code, qty)
	})
}

// CoverShort buys back qty units of a short position.
func (s *Session) CoverShort(code string, qty decimal.Decimal) (*portfolio.Result, error) {
	return s.trade(func(day int) (*portfolio.Result, error) {
		return s.executor.CoverShort(day, code, qty)
	})
}

func (s *Session) trade(fn func(day int) (*portfolio.Result, error)) (*portfolio.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := fn(s.day)
	if err != nil {
		return nil, err
	}
	s.trades = append(s.trades, res.Record)

	rec := res.Record
	s.log.Info().
		Str("action", string(rec.Action)).
		Str("code", rec.Code).
		Str("amount", rec.Amount.String()).
		Str("price", rec.Price.String()).
		Msg("trade executed")

	evt := &recorder.TradeEvent{
		ID:        rec.ID,
		Slot:      s.slot,
		Day:       rec.Day,
		Kind:      string(rec.Kind),
		Code:      rec.Code,
		Action:    string(rec.Action),
		Amount:    rec.Amount.InexactFloat64(),
		Price:     rec.Price.InexactFloat64(),
		Realized:  res.Realized.InexactFloat64(),
		CashAfter: s.ledger.Cash.InexactFloat64(),
	}
	if err := s.opts.Recorder.RecordTrade(evt); err != nil {
		s.log.Warn().Err(err).Msg("record trade failed")
	}
	s.autosave()
	return res, nil
}

// Trades returns a copy of the session trade history, oldest first.
func (s *Session) Trades() []model.TradeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TradeRecord(nil), s.trades...)
}
