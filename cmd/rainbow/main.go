package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&statusCmd{}, "portfolio")
	commander.Register(&marketCmd{}, "portfolio")
	commander.Register(&historyCmd{}, "portfolio")

	commander.Register(&tradeCmd{name: "buy"}, "trading")
	commander.Register(&tradeCmd{name: "sell"}, "trading")
	commander.Register(&tradeCmd{name: "short"}, "trading")
	commander.Register(&tradeCmd{name: "cover"}, "trading")

	commander.Register(&advanceCmd{}, "simulation")
	commander.Register(&autopilotCmd{}, "simulation")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
