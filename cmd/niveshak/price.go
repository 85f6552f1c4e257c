package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"niveshak/internal/logger"
	"niveshak/internal/pricing"
	"niveshak/internal/provider"
	"niveshak/internal/ticker"
)

// priceCmd implements the "price" command.
type priceCmd struct {
	date string
	name string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "resolves the price of one ticker" }
func (*priceCmd) Usage() string {
	return `price [-date YYYY-MM-DD] [-name "Instrument name"] <ticker>

Resolves a price through the ticker's source chain, reading and filling the price
cache. Without -date the latest price is returned.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "historical date (YYYY-MM-DD)")
	f.StringVar(&c.name, "name", "", "instrument name used to cross-check model answers")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logger.Named("price")

	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	var date *time.Time
	if c.date != "" {
		d, err := time.Parse(time.DateOnly, c.date)
		if err != nil {
			log.Errorf("invalid -date %q: %v", c.date, err)
			return subcommands.ExitUsageError
		}
		date = &d
	}

	a, closeDB, err := open(ctx)
	if err != nil {
		log.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeDB()

	quote, err := a.Resolver.Resolve(ctx, provider.NewInstrument(f.Arg(0), c.name), date)
	if pricing.IsNotFound(err) {
		log.Warnw("no price found", "ticker", f.Arg(0))
		return exitMissing
	}
	if err != nil {
		log.Errorf("price lookup failed: %v", err)
		return subcommands.ExitFailure
	}

	if err := printJSON(quote); err != nil {
		log.Errorf("failed to write quote: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// classifyCmd implements the "classify" command.
type classifyCmd struct{}

func (*classifyCmd) Name() string     { return "classify" }
func (*classifyCmd) Synopsis() string { return "prints the instrument class of each ticker" }
func (*classifyCmd) Usage() string {
	return `classify <ticker>...

Prints each ticker with the class it routes to. No network or database access.
`
}

func (*classifyCmd) SetFlags(*flag.FlagSet) {}

func (*classifyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	for _, raw := range f.Args() {
		fmt.Printf("%-25s %s\n", raw, ticker.Classify(raw))
	}
	return subcommands.ExitSuccess
}
