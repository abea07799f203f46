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

// allocateCmd holds the flags for the 'allocate' subcommand.
type allocateCmd struct {
	account   string
	exclude   string
	rebalance bool
}

func (*allocateCmd) Name() string { return "allocate" }
func (*allocateCmd) Synopsis() string {
	return "spread the available cash of an account across its assets"
}
func (*allocateCmd) Usage() string {
	return `lak allocate -t <account> [-e <asset>,<asset>...] [-rebalance]

  Spreads the available cash of an account (see "lak whatif") across its assets
  so that the whole portfolio gets as close as possible to its desired asset
  allocation. A negative available cash is withdrawn from the assets.

  With -rebalance, the assets of the account are also sold and bought to get
  closer to the desired allocation; the available cash may then be zero.

  The result is saved as what ifs on the assets.
`
}

func (c *allocateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "t", "", "part of the name of the account")
	f.StringVar(&c.exclude, "e", "", "comma separated list of assets to leave untouched")
	f.BoolVar(&c.rebalance, "rebalance", false, "also sell and buy the assets of the account")
}

func (c *allocateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintf(os.Stderr, "Error: allocate requires -t\n")
		return subcommands.ExitUsageError
	}
	p, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	a, err := p.AccountBySubstr(c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding account: %v\n", err)
		return subcommands.ExitUsageError
	}
	exclude, err := excluded(a, splitList(c.exclude))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding excluded asset: %v\n", err)
		return subcommands.ExitUsageError
	}

	deltas, err := p.AllocateAccount(a.Name(), exclude, c.rebalance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error allocating cash: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := savePortfolio(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AllocateMarkdown(a.Name(), deltas))
	return subcommands.ExitSuccess
}

// excluded resolves parts of asset names to the short names of the assets of a.
func excluded(a *allocation.Account, parts []string) ([]string, error) {
	var names []string
	for _, part := range parts {
		asset, err := a.AssetBySubstr(part)
		if err != nil {
			return nil, err
		}
		names = append(names, asset.ShortName())
	}
	return names, nil
}
