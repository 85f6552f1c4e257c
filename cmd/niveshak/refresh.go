package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"niveshak/internal/logger"
)

// refreshCmd implements the "refresh" command.
type refreshCmd struct {
	watch bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "resolves latest prices for every held ticker" }
func (*refreshCmd) Usage() string {
	return `refresh [-watch]

Resolves the latest price of every ticker found in the transactions table and stores
it in the price cache. Exits 2 when some tickers could not be priced.

With -watch the refresh repeats every REFRESH_INTERVAL until interrupted.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.watch, "watch", false, "keep refreshing on REFRESH_INTERVAL until interrupted")
}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logger.Named("refresh")

	a, closeDB, err := open(ctx)
	if err != nil {
		log.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeDB()

	if c.watch {
		if _, err := a.Refresher.Run(ctx); err != nil {
			log.Errorf("initial refresh run failed: %v", err)
		}
		if err := a.Refresher.Start(ctx); err != nil {
			log.Errorf("failed to start refresher: %v", err)
			return subcommands.ExitFailure
		}
		<-ctx.Done()
		a.Refresher.Stop()
		return subcommands.ExitSuccess
	}

	result, err := a.Refresher.Run(ctx)
	if err != nil {
		log.Errorf("refresh run failed: %v", err)
		return subcommands.ExitFailure
	}

	log.Infow("refresh run completed",
		"instruments_found", result.InstrumentsFound,
		"prices_resolved", result.PricesResolved,
		"invalid", len(result.Invalid),
		"missing", len(result.Missing),
		"duration", result.Duration.String(),
	)
	for _, t := range result.Missing {
		log.Warnw("no price found", "ticker", t)
	}
	if err := printJSON(result); err != nil {
		log.Errorf("failed to write result: %v", err)
		return subcommands.ExitFailure
	}

	if len(result.Missing) > 0 {
		return exitMissing
	}
	return subcommands.ExitSuccess
}
