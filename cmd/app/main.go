package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"QuantInvest/internal/di"
	"QuantInvest/internal/handler/cli"
	"QuantInvest/pkg/config"
	"QuantInvest/pkg/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	opts := &cli.Options{Out: os.Stdout, Err: os.Stderr}
	opts.RegisterFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	// the app is built on first use so help and usage work without config
	var app *server.App
	runtime := func(context.Context) (cli.Runtime, error) {
		if app != nil {
			return app, nil
		}
		cfg, err := config.LoadWithEnv(*configPath)
		if err != nil {
			return nil, fmt.Errorf("config load failed: %w", err)
		}
		a, err := di.InitializeApp(cfg)
		if err != nil {
			return nil, fmt.Errorf("app initialization failed: %w", err)
		}
		app = a
		return app, nil
	}

	for _, c := range cli.Commands(runtime, opts) {
		commander.Register(c, "reports")
	}

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := commander.Execute(ctx)

	if app != nil {
		if err := app.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}
	return int(status)
}
