package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"RainbowMarket/internal/model"
	"RainbowMarket/internal/portfolio"
	"RainbowMarket/internal/report"
)

// tradeCmd implements buy, sell, short and cover.
type tradeCmd struct {
	name string
	bond bool
}

func (c *tradeCmd) Name() string { return c.name }

func (c *tradeCmd) Synopsis() string {
	switch c.name {
	case "buy":
		return "buy units of a stock or bond"
	case "sell":
		return "sell units of a held stock or bond"
	case "short":
		return "borrow and sell units of a stock"
	default:
		return "buy back units of a short position"
	}
}

func (c *tradeCmd) Usage() string {
	if c.name == "buy" || c.name == "sell" {
		return fmt.Sprintf("rainbow %s [-bond] <code> <quantity>\n", c.name)
	}
	return fmt.Sprintf("rainbow %s <code> <quantity>\n", c.name)
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	if c.name == "buy" || c.name == "sell" {
		f.BoolVar(&c.bond, "bond", false, "Trade a bond instead of a stock")
	}
}

func (c *tradeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	code := strings.ToUpper(f.Arg(0))
	qty, err := decimal.NewFromString(f.Arg(1))
	if err != nil {
		fail(fmt.Errorf("invalid quantity %q: %w", f.Arg(1), err))
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	kind := model.KindStock
	if c.bond {
		kind = model.KindBond
	}

	var res *portfolio.Result
	switch c.name {
	case "buy":
		res, err = a.session.Buy(kind, code, qty)
	case "sell":
		res, err = a.session.Sell(kind, code, qty)
	case "short":
		res, err = a.session.OpenShort(code, qty)
	case "cover":
		res, err = a.session.CoverShort(code, qty)
	}
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Println(report.FormatTrade(res))
	return subcommands.ExitSuccess
}
