package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/allocation"
	"github.com/google/subcommands"
)

// initCmd holds the flags for the 'init' subcommand.
type initCmd struct {
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a sample portfolio file" }
func (*initCmd) Usage() string {
	return `lak init [-f]

  Creates a sample portfolio file to start from: a three fund asset allocation
  and a single account. Edit it with any text editor.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "overwrite an existing portfolio file")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := os.Stat(PortfolioFile()); !c.force && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: portfolio file %q already exists, use -f to overwrite it\n", PortfolioFile())
		return subcommands.ExitFailure
	}
	p, err := samplePortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := savePortfolio(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s\n", PortfolioFile())
	return subcommands.ExitSuccess
}

// samplePortfolio returns a three fund portfolio held in a single account.
func samplePortfolio() (*allocation.Portfolio, error) {
	classes := allocation.NewAssetClass("All").
		AddSubclass(0.6, allocation.NewAssetClass("Equity").
			AddSubclass(0.6, allocation.NewAssetClass("US")).
			AddSubclass(0.4, allocation.NewAssetClass("Intl"))).
		AddSubclass(0.4, allocation.NewAssetClass("Bonds"))
	p, err := allocation.NewPortfolio(classes)
	if err != nil {
		return nil, err
	}

	a := allocation.NewAccount("Brokerage", "Taxable")
	us, err := allocation.NewTickerAsset("VTI", 10, allocation.ClassMapping{"US": 1})
	if err != nil {
		return nil, err
	}
	intl, err := allocation.NewTickerAsset("VXUS", 20, allocation.ClassMapping{"Intl": 1})
	if err != nil {
		return nil, err
	}
	bonds, err := allocation.NewManualAsset("Bond Fund", 2000, allocation.ClassMapping{"Bonds": 1})
	if err != nil {
		return nil, err
	}
	for _, asset := range []allocation.Asset{us, intl, bonds} {
		if err := a.AddAsset(asset, false); err != nil {
			return nil, err
		}
	}
	if err := p.AddAccount(a, false); err != nil {
		return nil, err
	}
	return p, nil
}
