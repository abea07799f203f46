package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/allocation/renderer"
	"github.com/google/subcommands"
)

type assetsCmd struct{}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "list the assets of every account" }
func (*assetsCmd) Usage() string {
	return `lak assets

  Lists the assets of every account with their value, what ifs included.
`
}

func (c *assetsCmd) SetFlags(f *flag.FlagSet) {}

func (c *assetsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AssetsMarkdown(p.Holdings()))
	return subcommands.ExitSuccess
}

// accountsCmd holds the flags for the 'accounts' subcommand.
type accountsCmd struct {
	group bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the accounts and their value" }
func (*accountsCmd) Usage() string {
	return `lak accounts [-g]

  Lists the accounts with their value and share of the portfolio.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.group, "g", false, "group the accounts by account type")
}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AccountsMarkdown(p.AccountSummaries(c.group)))
	return subcommands.ExitSuccess
}

type locationCmd struct{}

func (*locationCmd) Name() string     { return "location" }
func (*locationCmd) Synopsis() string { return "display where each asset class is held" }
func (*locationCmd) Usage() string {
	return `lak location

  Displays, for each asset class, how its money is spread across account types.
`
}

func (c *locationCmd) SetFlags(f *flag.FlagSet) {}

func (c *locationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.LocationMarkdown(p.AssetLocation()))
	return subcommands.ExitSuccess
}
