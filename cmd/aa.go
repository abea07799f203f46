package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/allocation/renderer"
	"github.com/google/subcommands"
)

// aaCmd holds the flags for the 'aa' subcommand.
type aaCmd struct {
	tree    bool
	classes string
}

func (*aaCmd) Name() string     { return "aa" }
func (*aaCmd) Synopsis() string { return "display the asset allocation" }
func (*aaCmd) Usage() string {
	return `lak aa [-tree] [-c <class>,<class>...]

  Displays the actual asset allocation of the portfolio next to the desired one.

  By default the whole tree is printed in a single compact table. With -tree,
  each asset class is printed in its own table. With -c, the allocation is
  computed across the given classes only; they must cover the tree exactly once
  (e.g. -c Equity,Bonds or -c US,Intl,Bonds).
`
}

func (c *aaCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.tree, "tree", false, "print one table per asset class")
	f.StringVar(&c.classes, "c", "", "comma separated list of asset classes to compute the allocation across")
}

func (c *aaCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if classes := splitList(c.classes); len(classes) > 0 {
		root, err := p.AllocationForClasses(classes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing allocation: %v\n", err)
			return subcommands.ExitUsageError
		}
		printMarkdown(renderer.ClassesMarkdown(root))
		return subcommands.ExitSuccess
	}

	root, err := p.Allocation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing allocation: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.tree {
		printMarkdown(renderer.AllocationMarkdown(root))
	} else {
		printMarkdown(renderer.CompactMarkdown(root))
	}
	return subcommands.ExitSuccess
}
