package game

import (
	"sort"

	"github.com/shopspring/decimal"

	"RainbowMarket/internal/model"
)

// Valuation is cash plus the mark-to-market value of long holdings.
// Short positions are not included.
type Valuation struct {
	Cash     decimal.Decimal
	Holdings decimal.Decimal
	Total    decimal.Decimal
}

// Position is a long holding marked at the current price.
type Position struct {
	Kind       model.Kind
	Code       string
	Name       string
	Amount     decimal.Decimal
	AvgPrice   decimal.Decimal
	Price      decimal.Decimal
	Value      decimal.Decimal
	Unrealized decimal.Decimal
}

// ShortView is a short position marked at the current price.
type ShortView struct {
	Code        string
	Amount      decimal.Decimal
	BorrowPrice decimal.Decimal
	Price       decimal.Decimal
	Margin      decimal.Decimal
	DayOpened   int
	Unrealized  decimal.Decimal
}

// Holdings is a read-only copy of the player's state.
type Holdings struct {
	Day      int
	Cash     decimal.Decimal
	Debt     decimal.Decimal
	Longs    []Position
	Shorts   []ShortView
	Progress model.Progress
}

// CurrentValuation values the ledger at current prices.
func (s *Session) CurrentValuation() Valuation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valuation()
}

func (s *Session) valuation() Valuation {
	holdings := decimal.Zero
	for _, m := range []map[string]*model.Holding{s.ledger.Stocks, s.ledger.Bonds} {
		for code, h := range m {
			price, err := s.catalog.CurrentPrice(code)
			if err != nil {
				continue
			}
			holdings = holdings.Add(price.Mul(h.Amount))
		}
	}
	return Valuation{
		Cash:     s.ledger.Cash,
		Holdings: holdings,
		Total:    s.ledger.Cash.Add(holdings),
	}
}

// HoldingsSnapshot returns the positions sorted by kind and code.
func (s *Session) HoldingsSnapshot() Holdings {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Holdings{
		Day:      s.day,
		Cash:     s.ledger.Cash,
		Debt:     s.ledger.Debt,
		Progress: s.ledger.Progress,
	}
	for _, kind := range []model.Kind{model.KindStock, model.KindBond} {
		for code, h := range s.ledger.HoldingsFor(kind) {
			inst, err := s.catalog.Get(code)
			if err != nil {
				continue
			}
			price := inst.Price()
			out.Longs = append(out.Longs, Position{
				Kind:       kind,
				Code:       code,
				Name:       inst.Name,
				Amount:     h.Amount,
				AvgPrice:   h.AvgPrice,
				Price:      price,
				Value:      price.Mul(h.Amount),
				Unrealized: price.Sub(h.AvgPrice).Mul(h.Amount),
			})
		}
	}
	sort.Slice(out.Longs, func(i, j int) bool {
		if out.Longs[i].Kind != out.Longs[j].Kind {
			return out.Longs[i].Kind > out.Longs[j].Kind // stocks first
		}
		return out.Longs[i].Code < out.Longs[j].Code
	})

	for code, sp := range s.ledger.Shorts {
		price, err := s.catalog.CurrentPrice(code)
		if err != nil {
			continue
		}
		out.Shorts = append(out.Shorts, ShortView{
			Code:        code,
			Amount:      sp.Amount,
			BorrowPrice: sp.BorrowPrice,
			Price:       price,
			Margin:      sp.Margin,
			DayOpened:   sp.DayOpened,
			Unrealized:  sp.BorrowPrice.Sub(price).Mul(sp.Amount),
		})
	}
	sort.Slice(out.Shorts, func(i, j int) bool { return out.Shorts[i].Code < out.Shorts[j].Code })
	return out
}

// PriceHistory returns the most recent window points of an instrument.
func (s *Session) PriceHistory(code string, window int) ([]model.PricePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.PriceHistory(code, window)
}

// Quote is an instrument's static data and current price.
type Quote struct {
	Kind  model.Kind
	Code  string
	Name  string
	Price decimal.Decimal
	// Change since the previous history entry; zero with a single entry.
	Change decimal.Decimal
}

// Market lists every instrument in catalog order.
func (s *Session) Market() []Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	insts := s.catalog.Instruments("")
	out := make([]Quote, 0, len(insts))
	for _, inst := range insts {
		q := Quote{Kind: inst.Kind, Code: inst.Code, Name: inst.Name, Price: inst.Price()}
		if n := len(inst.History); n > 1 {
			q.Change = q.Price.Sub(inst.History[n-2].Price)
		}
		out = append(out, q)
	}
	return out
}
