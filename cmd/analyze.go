package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/allocation"
	"github.com/etnz/allocation/renderer"
	"github.com/google/subcommands"
)

// bandsCmd holds the flags for the 'bands' subcommand.
type bandsCmd struct {
	absolute float64
	relative float64
}

func (*bandsCmd) Name() string     { return "bands" }
func (*bandsCmd) Synopsis() string { return "list the asset classes out of their rebalance bands" }
func (*bandsCmd) Usage() string {
	return `lak bands [-a <percent>] [-r <percent>]

  Lists the leaf asset classes whose actual allocation drifted from the desired
  one by more than -a percentage points, or by more than -r percent of the
  desired allocation.
`
}

func (c *bandsCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.absolute, "a", 5, "absolute band, in percentage points")
	f.Float64Var(&c.relative, "r", 25, "relative band, in percent of the desired allocation")
}

func (c *bandsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	abs, rel := allocation.Percent(c.absolute), allocation.Percent(c.relative)
	violations, err := p.BandCheck(abs, rel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error checking bands: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.BandsMarkdown(violations, abs, rel))
	return subcommands.ExitSuccess
}

// tlhCmd holds the flags for the 'tlh' subcommand.
type tlhCmd struct {
	percent float64
	dollars float64
}

func (*tlhCmd) Name() string     { return "tlh" }
func (*tlhCmd) Synopsis() string { return "list the tax lots worth harvesting for their losses" }
func (*tlhCmd) Usage() string {
	return `lak tlh [-p <percent>] [-d <dollars>]

  Lists the tax lots with an unrealized loss of at least -p percent of their
  cost, and the lots of the assets whose losses add up to at least -d dollars.
  A zero threshold is disabled.
`
}

func (c *tlhCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.percent, "p", 10, "loss threshold in percent of the cost of a lot")
	f.Float64Var(&c.dollars, "d", 0, "loss threshold in dollars for all the lots of an asset")
}

func (c *tlhCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	lots, err := p.Harvestable(allocation.Percent(c.percent), c.dollars)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding lots to harvest: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.HarvestMarkdown(lots))
	return subcommands.ExitSuccess
}
