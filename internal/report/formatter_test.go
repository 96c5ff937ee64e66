package report

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"RainbowMarket/internal/game"
	"RainbowMarket/internal/model"
	"RainbowMarket/internal/portfolio"
	"RainbowMarket/internal/season"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestMoney(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{d(0), "0"},
		{d(1234567), "1,234,567"},
		{d(-5000), "-5,000"},
		{d(10_000_000_000_000), "10,000,000,000,000"},
		{decimal.RequireFromString("999.6"), "1,000"},
	}
	for _, tt := range tests {
		if got := Money(tt.in); got != tt.want {
			t.Errorf("Money(%s): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestFormatStatus(t *testing.T) {
	h := game.Holdings{
		Day:  8,
		Cash: d(1_000_000),
		Debt: d(100),
		Longs: []game.Position{{
			Kind: model.KindStock, Code: "APLE", Amount: d(2), AvgPrice: d(8000),
			Price: d(8500), Value: d(17000), Unrealized: d(1000),
		}},
		Shorts: []game.ShortView{{
			Code: "TSLA", Amount: d(10), BorrowPrice: d(1000), Price: d(700), Margin: d(5000), Unrealized: d(3000),
		}},
		Progress: model.Progress{Level: 2, Exp: 10, ExpToNextLevel: 150},
	}
	v := game.Valuation{Cash: h.Cash, Holdings: d(17000), Total: d(1_017_000)}

	out := FormatStatus(h, v, season.For(8))
	for _, want := range []string{"Day 8 | Summer", "1,017,000", "APLE", "(+1,000)", "TSLA", "margin 5,000", "Level 2 (10/150 exp)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in status:\n%s", want, out)
		}
	}
}

func TestFormatTrade(t *testing.T) {
	res := &portfolio.Result{
		Record:         model.TradeRecord{Kind: model.KindStock, Code: "TSLA", Action: model.ActionCover, Amount: d(10), Price: d(800)},
		Realized:       d(2000),
		MarginReturned: d(5000),
		CashDelta:      d(-3000),
	}
	out := FormatTrade(res)
	for _, want := range []string{"cover stock TSLA x10 @ 800", "cash -3,000", "realized +2,000", "margin returned 5,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestFormatMarket(t *testing.T) {
	out := FormatMarket([]game.Quote{
		{Kind: model.KindBond, Code: "GOV10", Name: "Government Bond", Price: d(1000)},
		{Kind: model.KindStock, Code: "APLE", Name: "Apple", Price: d(8000), Change: d(-20)},
	})
	if strings.Index(out, "APLE") > strings.Index(out, "GOV10") {
		t.Errorf("expected stocks before bonds:\n%s", out)
	}
	if !strings.Contains(out, "-20") {
		t.Errorf("expected change in output:\n%s", out)
	}
}

func TestFormatHistory(t *testing.T) {
	hist := []model.PricePoint{{Day: 0, Price: d(1000)}, {Day: 1, Price: d(1100)}}
	ind := &model.PriceIndicators{CurrentPrice: 1100, SMA7: 1100, SMA28: 1100, RSI14: 100, High30d: 1100, Low30d: 1000, Position30d: 1}
	sig := &model.TradeSignal{Code: "APLE", TotalScore: -0.3, Label: "hold", WarningMsg: "RSI above 85, consider taking profit"}

	out := FormatHistory("APLE", hist, ind, sig)
	for _, want := range []string{"APLE, last 2 days", "day    1  1,100", "RSI14: 100", "Score -0.300: hold", "taking profit"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in history:\n%s", want, out)
		}
	}
}
