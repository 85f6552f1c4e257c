// Command niveshak runs price refreshes, transaction imports and one-off lookups
// against the configured database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"niveshak/internal/app"
	"niveshak/internal/config"
	"niveshak/internal/database"
	"niveshak/internal/logger"
)

// exitMissing reports a run that finished but left some tickers unpriced.
const exitMissing subcommands.ExitStatus = 2

func main() {
	logger.Init(os.Getenv("ENV"))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&refreshCmd{}, "prices")
	commander.Register(&priceCmd{}, "prices")
	commander.Register(&classifyCmd{}, "prices")
	commander.Register(&importCmd{}, "transactions")
	commander.Register(&pushCmd{}, "pipeline")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	logger.Sync()
	os.Exit(int(status))
}

// open loads configuration, connects to the database and wires the application.
// The returned func releases the connection.
func open(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	closeDB := func() {
		if err := dbManager.Close(); err != nil {
			logger.Get().Warnf("failed to close database: %v", err)
		}
	}

	a, err := app.New(ctx, cfg, dbManager.DB())
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return a, closeDB, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
