package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"RainbowMarket/internal/calculator"
	"RainbowMarket/internal/report"
	"RainbowMarket/internal/strategy"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show cash, debt, positions and level" }
func (*statusCmd) Usage() string {
	return `rainbow status

  Prints the balances, long positions and shorts of the current slot.
`
}
func (*statusCmd) SetFlags(*flag.FlagSet) {}

func (*statusCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	s := a.session
	fmt.Print(report.FormatStatus(s.HoldingsSnapshot(), s.CurrentValuation(), s.Season()))
	return subcommands.ExitSuccess
}

type marketCmd struct{}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "list instruments and current prices" }
func (*marketCmd) Usage() string {
	return `rainbow market
`
}
func (*marketCmd) SetFlags(*flag.FlagSet) {}

func (*marketCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	fmt.Printf("Day %d | %s\n\n", a.session.Day(), a.session.Season().Name)
	fmt.Print(report.FormatMarket(a.session.Market()))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	code   string
	window int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show an instrument's recent prices, indicators and signal" }
func (*historyCmd) Usage() string {
	return `rainbow history -c <code> [-n <days>]
`
}

func (h *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&h.code, "c", "", "Instrument code (required)")
	f.IntVar(&h.window, "n", 30, "Number of most recent days to show")
}

func (h *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if h.code == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	// indicators use the full history, the listing only the window
	full, err := a.session.PriceHistory(h.code, -1)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	ind, err := calculator.Indicators(full)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	shown := full
	if h.window >= 0 && len(shown) > h.window {
		shown = shown[len(shown)-h.window:]
	}
	fmt.Print(report.FormatHistory(h.code, shown, ind, strategy.Evaluate(h.code, ind)))
	return subcommands.ExitSuccess
}
