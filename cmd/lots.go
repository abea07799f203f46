package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/allocation"
	"github.com/etnz/allocation/date"
	"github.com/etnz/allocation/renderer"
	"github.com/google/subcommands"
)

// lotsCmd holds the flags for the 'lots' subcommand.
type lotsCmd struct {
	account string
	asset   string
	csv     bool
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "list the tax lots and their unrealized gain" }
func (*lotsCmd) Usage() string {
	return `lak lots [-t <account>] [-a <asset>] [-csv]

  Lists the tax lots of the ticker assets with their unrealized gain and term.
  -t and -a filter on a part of the account name and of the ticker.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "t", "", "only lots of accounts whose name contains this")
	f.StringVar(&c.asset, "a", "", "only lots of tickers containing this")
	f.BoolVar(&c.csv, "csv", false, "print the lots as CSV")
}

func (c *lotsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	var lots []allocation.LotGain
	for _, l := range p.LotGains(date.Today()) {
		if strings.Contains(l.Account, c.account) && strings.Contains(l.Asset, c.asset) {
			lots = append(lots, l)
		}
	}

	if c.csv {
		if err := renderer.LotsCSV(os.Stdout, lots); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing lots: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.LotsMarkdown(lots))
	return subcommands.ExitSuccess
}
