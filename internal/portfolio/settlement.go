package portfolio

import (
	"github.com/shopspring/decimal"

	"RainbowMarket/internal/model"
	"RainbowMarket/internal/season"
)

var daysPerYear = decimal.NewFromInt(365)

// Statement is the outcome of one daily settlement.
type Statement struct {
	Day       int
	Dividends decimal.Decimal
	Coupons   decimal.Decimal
	Interest  decimal.Decimal
}

// Net is the cash change of the settlement.
func (s Statement) Net() decimal.Decimal {
	return s.Dividends.Add(s.Coupons)
}

// Settle credits stock income and bond coupons for the day and accrues debt
// interest at the given daily rate. Amounts are floored to whole units.
func (e *Executor) Settle(day int, s season.Season, interestRate decimal.Decimal) Statement {
	st := Statement{Day: day, Dividends: decimal.Zero, Coupons: decimal.Zero, Interest: decimal.Zero}
	yieldMult := decimal.NewFromFloat(s.BondYield)

	for code, h := range e.ledger.Stocks {
		inst, err := e.catalog.Get(code)
		if err != nil || inst.Kind != model.KindStock {
			continue
		}
		st.Dividends = st.Dividends.Add(inst.Income.Mul(h.Amount))
	}
	for code, h := range e.ledger.Bonds {
		inst, err := e.catalog.Get(code)
		if err != nil || inst.Kind != model.KindBond {
			continue
		}
		daily := inst.Price().Mul(decimal.NewFromFloat(inst.YieldRate)).Mul(yieldMult).Div(daysPerYear)
		st.Coupons = st.Coupons.Add(daily.Mul(h.Amount))
	}
	st.Dividends = st.Dividends.Floor()
	st.Coupons = st.Coupons.Floor()
	if interestRate.IsPositive() {
		st.Interest = e.ledger.Debt.Mul(interestRate).Floor()
	}

	e.ledger.Cash = e.ledger.Cash.Add(st.Net())
	e.ledger.Debt = e.ledger.Debt.Add(st.Interest)
	return st
}
