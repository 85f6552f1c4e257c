package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"niveshak/internal/logger"
	"niveshak/internal/services"
)

// importCmd implements the "import" command.
type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "imports a transaction CSV file" }
func (*importCmd) Usage() string {
	return `import <file.csv>

Reads a transaction file with a header row (ticker, quantity, price, transaction_type,
date, and optionally stock_name, channel, sector) and stores every row. A malformed
row aborts the import and nothing is written.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logger.Named("import")

	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		log.Errorf("failed to open %s: %v", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	rows, err := services.ParseTransactionsCSV(file)
	if err != nil {
		log.Errorf("failed to parse %s: %v", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	a, closeDB, err := open(ctx)
	if err != nil {
		log.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeDB()

	count, err := a.Transactions.Import(ctx, rows)
	if err != nil {
		log.Errorf("import failed: %v", err)
		return subcommands.ExitFailure
	}

	log.Infow("transactions imported", "file", f.Arg(0), "rows", count)
	return subcommands.ExitSuccess
}
