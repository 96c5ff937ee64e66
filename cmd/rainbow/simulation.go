package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"RainbowMarket/internal/game"
	"RainbowMarket/internal/report"
	"RainbowMarket/internal/scheduler"
)

type advanceCmd struct {
	days int
}

func (*advanceCmd) Name() string     { return "advance" }
func (*advanceCmd) Synopsis() string { return "advance the simulation by one or more days" }
func (*advanceCmd) Usage() string {
	return `rainbow advance [-n <days>]
`
}

func (c *advanceCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "n", 1, "Number of days to advance")
}

func (c *advanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.days < 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	for i := 0; i < c.days; i++ {
		fmt.Println(report.FormatDay(a.session.AdvanceDay()))
	}
	return subcommands.ExitSuccess
}

type autopilotCmd struct {
	cron string
	days int
}

func (*autopilotCmd) Name() string     { return "autopilot" }
func (*autopilotCmd) Synopsis() string { return "advance days on a cron schedule until interrupted" }
func (*autopilotCmd) Usage() string {
	return `rainbow autopilot [-cron <spec>] [-days <n>]

  Advances one day per cron tick (seconds field included) until Ctrl+C or
  until the day limit is reached. The game autosaves after every day.
`
}

func (c *autopilotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cron, "cron", "", "Cron spec with seconds (defaults to autopilot.cron from config)")
	f.IntVar(&c.days, "days", 0, "Stop after this many days (0 runs until interrupted)")
}

func (c *autopilotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	spec := c.cron
	if spec == "" {
		spec = a.cfg.Autopilot.Cron
	}
	sched := scheduler.NewScheduler(a.session, c.days, a.log)
	sched.OnDay = func(rep *game.DayReport) { fmt.Println(report.FormatDay(rep)) }
	if err := sched.Register(spec); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	a.log.Info().Str("slot", a.session.Slot()).Str("cron", spec).Msg("autopilot running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		a.log.Info().Msg("shutdown signal received, stopping")
	case <-sched.Done():
	case <-ctx.Done():
	}
	return subcommands.ExitSuccess
}
