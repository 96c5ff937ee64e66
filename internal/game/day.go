package game

import (
	"github.com/shopspring/decimal"

	"RainbowMarket/internal/portfolio"
	"RainbowMarket/internal/recorder"
	"RainbowMarket/internal/season"
)

// DayReport summarizes one day advance.
type DayReport struct {
	Day        int // the day now current
	Season     season.Season
	Settlement *portfolio.Statement // nil when settlement is disabled
	Valuation  Valuation
}

// AdvanceDay closes the current day: prices move, income settles, the day
// counter increments and a valuation snapshot is appended.
func (s *Session) AdvanceDay() *DayReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	closed := s.day
	sn := s.catalog.Advance(closed)
	rep := &DayReport{Season: sn}
	if s.opts.Settlement {
		st := s.executor.Settle(closed, sn, s.opts.InterestRate)
		rep.Settlement = &st
	}
	s.day++
	rep.Day = s.day

	v := s.valuation()
	rep.Valuation = v
	s.totalAssets = appendBounded(s.totalAssets, v.Total)
	s.holdingsValue = appendBounded(s.holdingsValue, v.Holdings)

	s.log.Debug().Int("day", s.day).Str("season", sn.Name).Str("total", v.Total.String()).Msg("day advanced")
	s.journalDay(rep)
	s.autosave()
	return rep
}

func (s *Session) journalDay(rep *DayReport) {
	evt := &recorder.DayEvent{
		Slot:          s.slot,
		Day:           rep.Day,
		Season:        rep.Season.Name,
		Cash:          s.ledger.Cash.InexactFloat64(),
		Debt:          s.ledger.Debt.InexactFloat64(),
		HoldingsValue: rep.Valuation.Holdings.InexactFloat64(),
		TotalAssets:   rep.Valuation.Total.InexactFloat64(),
	}
	if st := rep.Settlement; st != nil {
		evt.Dividends = st.Dividends.InexactFloat64()
		evt.Coupons = st.Coupons.InexactFloat64()
		evt.Interest = st.Interest.InexactFloat64()
	}
	if err := s.opts.Recorder.RecordDay(evt); err != nil {
		s.log.Warn().Err(err).Msg("record day failed")
	}
}

// TotalAssetsHistory returns a copy of the daily total-assets series.
func (s *Session) TotalAssetsHistory() []decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]decimal.Decimal(nil), s.totalAssets...)
}

// HoldingsValueHistory returns a copy of the daily holdings-value series.
func (s *Session) HoldingsValueHistory() []decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]decimal.Decimal(nil), s.holdingsValue...)
}
