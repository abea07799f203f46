package quote

import (
	"fmt"
	"strings"
)

// Static is a fixed set of prices, by ticker. The name of a ticker is the ticker itself.
type Static map[string]float64

// Price returns the price of ticker.
func (s Static) Price(ticker string) (float64, error) {
	p, ok := s[strings.ToUpper(ticker)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, ticker)
	}
	return p, nil
}

// Name returns ticker if it has a price.
func (s Static) Name(ticker string) (string, error) {
	if _, err := s.Price(ticker); err != nil {
		return "", err
	}
	return ticker, nil
}
