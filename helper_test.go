package allocation

import (
	"fmt"
	"math"
	"testing"
)

// threeFund returns All{Equity 60%{US 60%, Intl 40%}, Bonds 40%}.
func threeFund() *AssetClass {
	return NewAssetClass("All").
		AddSubclass(0.6, NewAssetClass("Equity").
			AddSubclass(0.6, NewAssetClass("US")).
			AddSubclass(0.4, NewAssetClass("Intl"))).
		AddSubclass(0.4, NewAssetClass("Bonds"))
}

// ninetyTen returns All{Equity 90%{US 60%, Intl 40%}, Bond 10%}.
func ninetyTen() *AssetClass {
	return NewAssetClass("All").
		AddSubclass(0.9, NewAssetClass("Equity").
			AddSubclass(0.6, NewAssetClass("US")).
			AddSubclass(0.4, NewAssetClass("Intl"))).
		AddSubclass(0.1, NewAssetClass("Bond"))
}

// near reports whether a and b are equal within tol.
func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// must is a helper for tests to unwrap a value or fail.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// staticQuoter is a Quoter with fixed prices. Names are the tickers followed by " Fund".
type staticQuoter map[string]float64

func (q staticQuoter) Price(ticker string) (float64, error) {
	p, ok := q[ticker]
	if !ok {
		return 0, fmt.Errorf("unknown ticker %q", ticker)
	}
	return p, nil
}

func (q staticQuoter) Name(ticker string) (string, error) {
	if _, ok := q[ticker]; !ok {
		return "", fmt.Errorf("unknown ticker %q", ticker)
	}
	return ticker + " Fund", nil
}

func manual(t *testing.T, name string, value float64, mapping ClassMapping) *ManualAsset {
	t.Helper()
	a, err := NewManualAsset(name, value, mapping)
	if err != nil {
		t.Fatalf("NewManualAsset(%q) error = %v", name, err)
	}
	return a
}
