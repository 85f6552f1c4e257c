package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/google/subcommands"

	"niveshak/internal/client"
	"niveshak/internal/config"
	"niveshak/internal/logger"
)

// pushCmd implements the "push" command.
type pushCmd struct {
	api  string
	asOf string
}

func (*pushCmd) Name() string     { return "push" }
func (*pushCmd) Synopsis() string { return "uploads a factsheet or transaction file to a running API" }
func (*pushCmd) Usage() string {
	return `push [-api URL] [-as-of YYYY-MM-DD] factsheet <ticker> <file.txt>
push [-api URL] transactions <file.csv>

Sends a file to the pipeline routes of a running niveshak API using PIPELINE_API_KEY.
`
}

func (c *pushCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.api, "api", "", "API base URL (default http://localhost:$PORT)")
	f.StringVar(&c.asOf, "as-of", "", "factsheet date (YYYY-MM-DD); today when omitted")
}

func (c *pushCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logger.Named("push")

	args := f.Args()
	if len(args) < 2 || (args[0] == "factsheet" && len(args) != 3) || (args[0] == "transactions" && len(args) != 2) {
		f.Usage()
		return subcommands.ExitUsageError
	}

	var asOf time.Time
	if c.asOf != "" {
		d, err := time.Parse(time.DateOnly, c.asOf)
		if err != nil {
			log.Errorf("invalid -as-of %q: %v", c.asOf, err)
			return subcommands.ExitUsageError
		}
		asOf = d
	}

	cfg, err := config.Load()
	if err != nil {
		log.Errorf("failed to load configuration: %v", err)
		return subcommands.ExitFailure
	}
	if c.api == "" {
		c.api = "http://localhost:" + cfg.Port
	}
	api := client.NewPipelineClient(c.api, cfg.PipelineAPIKey, &http.Client{Timeout: cfg.RequestTimeout})

	file, err := os.Open(args[len(args)-1])
	if err != nil {
		log.Errorf("failed to open %s: %v", args[len(args)-1], err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	switch args[0] {
	case "factsheet":
		series, err := api.ImportFactsheet(ctx, args[1], file, asOf)
		if err != nil {
			log.Errorf("%v", err)
			return subcommands.ExitFailure
		}
		log.Infow("factsheet imported", "ticker", args[1], "periods", len(series))
		if err := printJSON(series); err != nil {
			return subcommands.ExitFailure
		}
	case "transactions":
		n, err := api.ImportTransactions(ctx, file)
		if err != nil {
			log.Errorf("%v", err)
			return subcommands.ExitFailure
		}
		log.Infow("transactions imported", "rows", n)
	default:
		f.Usage()
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}
