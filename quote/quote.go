// Package quote resolves the price and the name of tickers from a Yahoo style chart API.
//
// A Client keeps every quote it fetched in memory for a day, and can keep the raw responses on
// disk so that consecutive runs of a command do not hit the network again:
//
//	q := quote.New(quote.WithDiskCache(os.TempDir()))
//	if err := q.Prefetch(ctx, []string{"VTI", "VXUS"}); err != nil { ... }
//	price, err := q.Price("VTI")
package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned for a ticker unknown to the quote service.
var ErrNotFound = errors.New("ticker not found")

// DefaultURL is the chart endpoint queried by default; the ticker is appended to it.
const DefaultURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

const (
	pricePath = "$.chart.result[0].meta.regularMarketPrice"
	namePath  = "$.chart.result[0].meta.longName"
	shortPath = "$.chart.result[0].meta.shortName"
)

// Quote is what the service knows about a ticker.
type Quote struct {
	Ticker string
	Name   string
	Price  float64
}

// Client fetches quotes. It is safe for concurrent use.
type Client struct {
	url         string
	http        *http.Client
	limiter     *rate.Limiter
	concurrency int
	cache       *cache.Cache
	log         zerolog.Logger

	diskDir string
	refresh bool
}

// Option configures a Client.
type Option func(*Client)

// WithURL sets the chart endpoint.
func WithURL(u string) Option { return func(c *Client) { c.url = u } }

// WithHTTPClient sets the http client used for every request.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithDiskCache keeps the responses of the day in dir.
func WithDiskCache(dir string) Option { return func(c *Client) { c.diskDir = dir } }

// WithRefresh ignores quotes cached on disk; fresh responses are still written there.
func WithRefresh(refresh bool) Option { return func(c *Client) { c.refresh = refresh } }

// WithRateLimit allows at most r requests per second, with bursts of b.
func WithRateLimit(r float64, b int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(r), b) }
}

// WithConcurrency sets how many requests Prefetch runs at once.
func WithConcurrency(n int) Option { return func(c *Client) { c.concurrency = n } }

// WithTTL sets how long a quote stays in memory.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cache = cache.New(ttl, 2*ttl) }
}

// WithLogger sets the logger of the client.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// New returns a Client querying DefaultURL, 5 requests per second at most.
func New(opts ...Option) *Client {
	c := &Client{
		url:         DefaultURL,
		limiter:     rate.NewLimiter(rate.Limit(5), 5),
		concurrency: 4,
		cache:       cache.New(24*time.Hour, 48*time.Hour),
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = new(http.Client)
	}
	if c.diskDir != "" {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		h := *c.http
		h.Transport = &diskCache{base: base, dir: c.diskDir, refresh: c.refresh, log: c.log}
		c.http = &h
	}
	return c
}

// Price returns the latest price of ticker.
func (c *Client) Price(ticker string) (float64, error) {
	q, err := c.Get(context.Background(), ticker)
	if err != nil {
		return 0, err
	}
	return q.Price, nil
}

// Name returns the long name of ticker.
func (c *Client) Name(ticker string) (string, error) {
	q, err := c.Get(context.Background(), ticker)
	if err != nil {
		return "", err
	}
	return q.Name, nil
}

// Prefetch fetches the quotes of all tickers in parallel, so that later calls to Price and Name
// are served from memory. It returns the first error encountered.
func (c *Client) Prefetch(ctx context.Context, tickers []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.concurrency, 1))
	for _, t := range tickers {
		g.Go(func() error {
			_, err := c.Get(ctx, t)
			return err
		})
	}
	return g.Wait()
}

// Get returns the quote of ticker, from memory when it was already fetched.
func (c *Client) Get(ctx context.Context, ticker string) (Quote, error) {
	key := strings.ToUpper(ticker)
	if q, found := c.cache.Get(key); found {
		return q.(Quote), nil
	}
	q, err := c.fetch(ctx, key)
	if err != nil {
		return Quote{}, err
	}
	c.cache.Set(key, q, cache.DefaultExpiration)
	return q, nil
}

func (c *Client) fetch(ctx context.Context, ticker string) (Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Quote{}, err
	}
	var jobj any
	if err := getJSON(ctx, c.http, c.url+url.PathEscape(ticker), &jobj); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Quote{}, fmt.Errorf("%w: %q", ErrNotFound, ticker)
		}
		return Quote{}, fmt.Errorf("error fetching %q: %w", ticker, err)
	}

	jval, err := jsonpath.Get(pricePath, jobj)
	if err != nil {
		// a 200 without a result is how the service answers some unknown tickers.
		return Quote{}, fmt.Errorf("%w: %q has no price (%v)", ErrNotFound, ticker, err)
	}
	price, ok := jval.(float64)
	if !ok || price <= 0 {
		return Quote{}, fmt.Errorf("error parsing %q: %q is not a price: %v", ticker, pricePath, jval)
	}

	name := ticker
	for _, path := range []string{namePath, shortPath} {
		if v, err := jsonpath.Get(path, jobj); err == nil {
			if s, ok := v.(string); ok && s != "" {
				name = s
				break
			}
		}
	}
	c.log.Info().Str("ticker", ticker).Float64("price", price).Msg("quote fetched")
	return Quote{Ticker: ticker, Name: name, Price: price}, nil
}
