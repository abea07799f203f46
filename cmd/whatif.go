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

type whatifsCmd struct{}

func (*whatifsCmd) Name() string     { return "whatifs" }
func (*whatifsCmd) Synopsis() string { return "list the what ifs of the portfolio" }
func (*whatifsCmd) Usage() string {
	return `lak whatifs

  Lists the hypothetical changes applied to the accounts and assets.
`
}

func (c *whatifsCmd) SetFlags(f *flag.FlagSet) {}

func (c *whatifsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.WhatIfsMarkdown(p.WhatIfs()))
	return subcommands.ExitSuccess
}

// whatifCmd holds the flags for the 'whatif' subcommand.
type whatifCmd struct {
	account string
	asset   string
	reset   bool
}

func (*whatifCmd) Name() string     { return "whatif" }
func (*whatifCmd) Synopsis() string { return "add a what if to an asset or to the cash of an account" }
func (*whatifCmd) Usage() string {
	return `lak whatif -t <account> [-a <asset>] [--] <amount>
lak whatif -reset

  Adds a hypothetical change to the value of an asset, or to the available cash
  of an account when -a is not set. What ifs add up. Changing an asset moves the
  same amount out of the available cash of its account.

  Amounts accept thousands separators; use "--" before a negative amount:

  $ lak whatif -t Schwab -a VTI -- -1,000
`
}

func (c *whatifCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "t", "", "part of the name of the account")
	f.StringVar(&c.asset, "a", "", "part of the name of the asset")
	f.BoolVar(&c.reset, "reset", false, "remove every what if and available cash")
}

func (c *whatifCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.reset && (f.NArg() != 1 || c.account == "") {
		fmt.Fprintf(os.Stderr, "Error: whatif requires -t and exactly one amount\n")
		return subcommands.ExitUsageError
	}
	var amount allocation.Money
	if !c.reset {
		var err error
		if amount, err = allocation.ParseMoney(f.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	p, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := c.apply(p, amount.Float()); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding what if: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := savePortfolio(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.WhatIfsMarkdown(p.WhatIfs()))
	return subcommands.ExitSuccess
}

func (c *whatifCmd) apply(p *allocation.Portfolio, amount float64) error {
	if c.reset {
		p.ResetWhatIfs()
		return nil
	}
	if c.asset == "" {
		a, err := p.AccountBySubstr(c.account)
		if err != nil {
			return err
		}
		return p.WhatIfCash(a.Name(), amount)
	}
	a, asset, err := p.AssetBySubstr(c.account, c.asset)
	if err != nil {
		return err
	}
	return p.WhatIf(a.Name(), asset.ShortName(), amount)
}
