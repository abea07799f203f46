package allocation

import (
	"fmt"
	"math"
	"slices"

	"github.com/etnz/allocation/date"
)

// Quoter resolves the current price and name of a ticker.
//
// The allocation engine never calls a Quoter: prices are resolved once, before any computation,
// by Portfolio.Resolve.
type Quoter interface {
	Price(ticker string) (float64, error)
	Name(ticker string) (string, error)
}

// Asset is a holding in an account.
type Asset interface {
	// Name is the long, human readable, name of the asset.
	Name() string
	// ShortName identifies the asset within its account.
	ShortName() string
	// Value is the current value of the asset, what-ifs excluded.
	Value() float64
	// Mapping is how the value of the asset is split across leaf asset classes.
	Mapping() ClassMapping

	// WhatIf adds a hypothetical delta to the value of the asset.
	WhatIf(delta float64)
	// Delta is the sum of the what-ifs.
	Delta() float64
	// AdjustedValue is the value with the what-ifs applied.
	AdjustedValue() float64
}

// whatIf implements the what-if part of the Asset interface.
type whatIf struct{ delta float64 }

func (w *whatIf) WhatIf(delta float64) {
	w.delta += delta
	if math.Abs(w.delta) < dust {
		w.delta = 0
	}
}

func (w *whatIf) Delta() float64 { return w.delta }

// ManualAsset is an asset whose value is entered by hand (a savings account, a house, ...).
type ManualAsset struct {
	name    string
	value   float64
	mapping ClassMapping
	whatIf
}

// NewManualAsset returns a new ManualAsset.
func NewManualAsset(name string, value float64, mapping ClassMapping) (*ManualAsset, error) {
	if value < 0 {
		return nil, fmt.Errorf("asset %q: negative value %v", name, value)
	}
	if err := mapping.Validate(name); err != nil {
		return nil, err
	}
	return &ManualAsset{name: name, value: value, mapping: mapping}, nil
}

func (a *ManualAsset) Name() string           { return a.name }
func (a *ManualAsset) ShortName() string      { return a.name }
func (a *ManualAsset) Value() float64         { return a.value }
func (a *ManualAsset) Mapping() ClassMapping  { return a.mapping }
func (a *ManualAsset) AdjustedValue() float64 { return a.value + a.delta }

// TickerAsset is a number of shares of a traded security, whose price is resolved by a Quoter.
type TickerAsset struct {
	ticker  string
	shares  float64
	mapping ClassMapping
	lots    []TaxLot

	name  string
	price float64
	whatIf
}

// NewTickerAsset returns a new TickerAsset. Its value is zero until it is resolved.
func NewTickerAsset(ticker string, shares float64, mapping ClassMapping) (*TickerAsset, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker asset without a ticker")
	}
	if shares < 0 {
		return nil, fmt.Errorf("asset %q: negative shares %v", ticker, shares)
	}
	if err := mapping.Validate(ticker); err != nil {
		return nil, err
	}
	return &TickerAsset{ticker: ticker, shares: shares, mapping: mapping}, nil
}

// Resolve fetches the price and name of the ticker.
func (a *TickerAsset) Resolve(q Quoter) error {
	price, err := q.Price(a.ticker)
	if err != nil {
		return fmt.Errorf("cannot get price of %q: %w", a.ticker, err)
	}
	name, err := q.Name(a.ticker)
	if err != nil {
		return fmt.Errorf("cannot get name of %q: %w", a.ticker, err)
	}
	a.price, a.name = price, name
	return nil
}

// Name returns the name of the security, or the ticker if it has not been resolved.
func (a *TickerAsset) Name() string {
	if a.name == "" {
		return a.ticker
	}
	return a.name
}

func (a *TickerAsset) ShortName() string      { return a.ticker }
func (a *TickerAsset) Ticker() string         { return a.ticker }
func (a *TickerAsset) Shares() float64        { return a.shares }
func (a *TickerAsset) Price() float64         { return a.price }
func (a *TickerAsset) Value() float64         { return a.shares * a.price }
func (a *TickerAsset) Mapping() ClassMapping  { return a.mapping }
func (a *TickerAsset) AdjustedValue() float64 { return a.Value() + a.delta }

// TaxLots returns the tax lots of the asset, oldest first.
func (a *TickerAsset) TaxLots() []TaxLot { return a.lots }

// SetLots replaces the tax lots of the asset. The quantities of the lots must add up to the
// shares of the asset.
func (a *TickerAsset) SetLots(lots []TaxLot) error {
	total := 0.0
	for _, l := range lots {
		total += l.Quantity
	}
	if len(lots) > 0 && math.Abs(total-a.shares) > WeightTolerance {
		return &InputInconsistencyError{Asset: a.ticker, Reason: "lot quantities do not add up to the shares", Got: total, Want: a.shares, Numeric: true}
	}
	a.lots = slices.SortedStableFunc(slices.Values(lots), func(x, y TaxLot) int {
		switch {
		case x.Date.Before(y.Date):
			return -1
		case x.Date.After(y.Date):
			return 1
		}
		return 0
	})
	return nil
}

// Lots returns the gain of every tax lot at the resolved price on a given day.
func (a *TickerAsset) Lots(on date.Date) []LotGain {
	gains := make([]LotGain, 0, len(a.lots))
	for _, l := range a.lots {
		g := gainOf(l, a.price, on)
		g.Asset = a.ticker
		gains = append(gains, g)
	}
	return gains
}
