// Package report renders session state as plain text for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"RainbowMarket/internal/game"
	"RainbowMarket/internal/model"
	"RainbowMarket/internal/portfolio"
	"RainbowMarket/internal/season"
)

// Money formats a whole-unit amount with thousands separators.
func Money(d decimal.Decimal) string {
	return humanize.BigComma(d.Round(0).BigInt())
}

func signedMoney(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + Money(d)
	}
	return Money(d)
}

// FormatStatus formats the player's balances and positions.
func FormatStatus(h game.Holdings, v game.Valuation, sn season.Season) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d | %s\n\n", h.Day, sn.Name)
	fmt.Fprintf(&b, "Cash:         %s\n", Money(h.Cash))
	fmt.Fprintf(&b, "Debt:         %s\n", Money(h.Debt))
	fmt.Fprintf(&b, "Holdings:     %s\n", Money(v.Holdings))
	fmt.Fprintf(&b, "Total assets: %s\n", Money(v.Total))
	fmt.Fprintf(&b, "Level %d (%d/%d exp)", h.Progress.Level, h.Progress.Exp, h.Progress.ExpToNextLevel)
	if h.Progress.FeatureUnlocked {
		b.WriteString(" | advanced features unlocked")
	}
	b.WriteString("\n")

	if len(h.Longs) > 0 {
		b.WriteString("\nPositions:\n")
		for _, p := range h.Longs {
			fmt.Fprintf(&b, "  %-5s %-6s x%s @ %s avg %s = %s (%s)\n",
				p.Kind, p.Code, p.Amount, Money(p.Price), Money(p.AvgPrice), Money(p.Value), signedMoney(p.Unrealized))
		}
	}
	if len(h.Shorts) > 0 {
		b.WriteString("\nShorts:\n")
		for _, s := range h.Shorts {
			fmt.Fprintf(&b, "  %-6s x%s borrowed @ %s now %s margin %s since day %d (%s)\n",
				s.Code, s.Amount, Money(s.BorrowPrice), Money(s.Price), Money(s.Margin), s.DayOpened, signedMoney(s.Unrealized))
		}
	}
	return b.String()
}

// FormatMarket formats the instrument list with current prices.
func FormatMarket(quotes []game.Quote) string {
	var b strings.Builder
	for _, kind := range []model.Kind{model.KindStock, model.KindBond} {
		if kind == model.KindStock {
			b.WriteString("Stocks:\n")
		} else {
			b.WriteString("\nBonds:\n")
		}
		for _, q := range quotes {
			if q.Kind != kind {
				continue
			}
			fmt.Fprintf(&b, "  %-6s %-24s %12s %10s\n", q.Code, q.Name, Money(q.Price), signedMoney(q.Change))
		}
	}
	return b.String()
}

// FormatTrade formats a completed trade.
func FormatTrade(res *portfolio.Result) string {
	rec := res.Record
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s x%s @ %s (cash %s)",
		rec.Action, rec.Kind, rec.Code, rec.Amount, Money(rec.Price), signedMoney(res.CashDelta))
	switch rec.Action {
	case model.ActionSell, model.ActionCover:
		fmt.Fprintf(&b, " | realized %s", signedMoney(res.Realized))
	}
	if rec.Action == model.ActionCover {
		fmt.Fprintf(&b, " | margin returned %s", Money(res.MarginReturned))
	}
	return b.String()
}

// FormatDay formats a day advance.
func FormatDay(rep *game.DayReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d closed (%s) | total assets %s", rep.Day, rep.Season.Name, Money(rep.Valuation.Total))
	if st := rep.Settlement; st != nil {
		fmt.Fprintf(&b, " | income %s, interest %s", signedMoney(st.Net()), Money(st.Interest))
	}
	return b.String()
}

// FormatHistory formats a price history with its indicators and signal.
func FormatHistory(code string, history []model.PricePoint, ind *model.PriceIndicators, sig *model.TradeSignal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, last %d days\n", code, len(history))
	for _, p := range history {
		fmt.Fprintf(&b, "  day %4d  %s\n", p.Day, Money(p.Price))
	}
	if ind != nil {
		fmt.Fprintf(&b, "\nSMA7: %.0f | SMA28: %.0f | RSI14: %.0f\n", ind.SMA7, ind.SMA28, ind.RSI14)
		fmt.Fprintf(&b, "30d range: %.0f ~ %.0f (position %.0f%%)\n", ind.Low30d, ind.High30d, ind.Position30d*100)
	}
	if sig != nil {
		b.WriteString("\nSignal factors:\n")
		for _, f := range sig.Factors {
			fmt.Fprintf(&b, "  %s (%s): %+.1f (x%.2f) = %+.3f\n", f.Name, f.Commentary, f.RawScore, f.Weight, f.Weighted)
		}
		fmt.Fprintf(&b, "Score %+.3f: %s\n", sig.TotalScore, sig.Label)
		if sig.WarningMsg != "" {
			fmt.Fprintf(&b, "%s\n", sig.WarningMsg)
		}
	}
	return b.String()
}
