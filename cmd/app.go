// Package cmd implements the CLI application to track a portfolio against its asset allocation.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/allocation"
	"github.com/etnz/allocation/quote"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// EnvPortfolio names the environment variable holding the default portfolio file.
const EnvPortfolio = "LAK_PORTFOLIO"

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&aaCmd{}, "portfolio")
	c.Register(&assetsCmd{}, "portfolio")
	c.Register(&accountsCmd{}, "portfolio")
	c.Register(&lotsCmd{}, "portfolio")
	c.Register(&locationCmd{}, "portfolio")

	c.Register(&whatifsCmd{}, "what ifs")
	c.Register(&whatifCmd{}, "what ifs")
	c.Register(&allocateCmd{}, "what ifs")

	c.Register(&bandsCmd{}, "analyze")
	c.Register(&tlhCmd{}, "analyze")

	c.Register(&initCmd{}, "")
	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	portfolioFile = flag.String("portfolio", "", "Path to the portfolio file (YAML). Defaults to $"+EnvPortfolio+" or ~/portfolio.yaml")
	refresh       = flag.Bool("refresh", false, "ignore the quotes cached on disk")
	quoteURL      = flag.String("quote-url", quote.DefaultURL, "chart endpoint used to get the price of tickers")
	raw           = flag.Bool("raw", false, "print plain markdown instead of rendering it for the terminal")
	Verbose       = flag.Bool("v", false, "log debug information to stderr")
)

// PortfolioFile returns the portfolio file: the -portfolio flag, $LAK_PORTFOLIO, or
// ~/portfolio.yaml in that order.
func PortfolioFile() string {
	if *portfolioFile != "" {
		return *portfolioFile
	}
	if p := os.Getenv(EnvPortfolio); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "portfolio.yaml"
	}
	return filepath.Join(home, "portfolio.yaml")
}

// newQuoter returns the quote client shared by all commands.
func newQuoter() *quote.Client {
	opts := []quote.Option{
		quote.WithURL(*quoteURL),
		quote.WithRefresh(*refresh),
		quote.WithLogger(log.Logger),
	}
	if dir, err := os.UserCacheDir(); err == nil {
		opts = append(opts, quote.WithDiskCache(filepath.Join(dir, "lak")))
	}
	return quote.New(opts...)
}

// loadPortfolio decodes the portfolio file and resolves the price of its ticker assets.
func loadPortfolio(ctx context.Context) (*allocation.Portfolio, error) {
	p, err := allocation.LoadPortfolio(PortfolioFile(), nil)
	if err != nil {
		return nil, err
	}
	tickers := p.TickerAssets()
	if len(tickers) == 0 {
		return p, nil
	}
	q := newQuoter()
	var names []string
	for _, t := range tickers {
		names = append(names, t.Ticker())
	}
	log.Debug().Strs("tickers", names).Msg("resolving prices")
	if err := q.Prefetch(ctx, names); err != nil {
		return nil, fmt.Errorf("could not get prices: %w", err)
	}
	if err := p.Resolve(q); err != nil {
		return nil, err
	}
	return p, nil
}

// savePortfolio writes p back to the portfolio file.
func savePortfolio(p *allocation.Portfolio) error {
	return allocation.SavePortfolio(PortfolioFile(), p)
}

// printMarkdown prints a markdown document to stdout, rendered for the terminal unless -raw is set.
func printMarkdown(doc string) {
	if *raw {
		fmt.Print(doc)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		log.Warn().Err(err).Msg("cannot render markdown")
		fmt.Print(doc)
		return
	}
	out, err := r.Render(doc)
	if err != nil {
		log.Warn().Err(err).Msg("cannot render markdown")
		fmt.Print(doc)
		return
	}
	fmt.Print(out)
}

// splitList splits a comma separated flag value, ignoring empty items.
func splitList(s string) []string {
	var res []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}
