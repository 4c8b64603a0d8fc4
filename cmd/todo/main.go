package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/todolist/internal/app"
	"github.com/idilsaglam/todolist/internal/cli"
	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/logging"
	"github.com/idilsaglam/todolist/internal/tui"
	"github.com/idilsaglam/todolist/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.Usage = cli.PrintHelp
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		ui.Fail("config: " + err.Error())
		return 2
	}
	ui.SetTheme(cfg.Theme)
	ui.SetColorMode(cfg.Color)

	// Hand the remaining args to the CLI runner.
	args := fs.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		return 2
	}

	// The full-screen list owns the terminal; its logs go to the log file only.
	logOpts := logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}
	if args[0] != "ui" {
		logOpts.Output = os.Stderr
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}
	defer closeLog()

	a, err := app.New(cfg, logger)
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}

	code := cli.Run(a, args, cli.Options{
		Group:       cfg.Group,
		Interactive: tui.Run,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
