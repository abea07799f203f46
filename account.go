package allocation

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Account is a named container of assets (a brokerage account, a 401(k), ...).
//
// Its available cash is hypothetical money: money to invest (positive) or to withdraw
// (negative) from the account. Allocating an account turns that cash into what-ifs on its
// assets.
type Account struct {
	name   string
	typ    string
	assets []Asset
	cash   float64
}

// NewAccount returns a new empty account. accountType is free form ("Taxable", "Roth IRA", ...).
func NewAccount(name, accountType string) *Account {
	return &Account{name: name, typ: accountType}
}

func (a *Account) Name() string { return a.name }
func (a *Account) Type() string { return a.typ }

// Assets returns the assets of the account in declaration order.
func (a *Account) Assets() []Asset { return a.assets }

// Asset returns the asset with the given short name.
func (a *Account) Asset(shortName string) (Asset, bool) {
	i := a.index(shortName)
	if i < 0 {
		return nil, false
	}
	return a.assets[i], true
}

func (a *Account) index(shortName string) int {
	return slices.IndexFunc(a.assets, func(x Asset) bool { return x.ShortName() == shortName })
}

// AddAsset appends an asset to the account. An asset with the same short name is an error,
// unless replace is true, in which case it is replaced in place.
func (a *Account) AddAsset(asset Asset, replace bool) error {
	i := a.index(asset.ShortName())
	switch {
	case i < 0:
		a.assets = append(a.assets, asset)
	case replace:
		a.assets[i] = asset
	default:
		return fmt.Errorf("account %q already has an asset %q", a.name, asset.ShortName())
	}
	return nil
}

// RemoveAsset removes the asset with the given short name.
func (a *Account) RemoveAsset(shortName string) error {
	i := a.index(shortName)
	if i < 0 {
		return fmt.Errorf("account %q has no asset %q", a.name, shortName)
	}
	a.assets = slices.Delete(a.assets, i, i+1)
	return nil
}

// AssetBySubstr returns the only asset whose short name or name contains substr. An exact
// short name match always wins.
func (a *Account) AssetBySubstr(substr string) (Asset, error) {
	if asset, ok := a.Asset(substr); ok {
		return asset, nil
	}
	var matches []Asset
	for _, asset := range a.assets {
		if strings.Contains(asset.ShortName(), substr) || strings.Contains(asset.Name(), substr) {
			matches = append(matches, asset)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no asset matching %q in account %q", substr, a.name)
	case 1:
		return matches[0], nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.ShortName()
	}
	return nil, fmt.Errorf("%q matches more than one asset in account %q: %s", substr, a.name, strings.Join(names, ", "))
}

// AvailableCash returns the cash waiting to be allocated.
func (a *Account) AvailableCash() float64 { return a.cash }

// AddCash adds delta to the available cash.
func (a *Account) AddCash(delta float64) {
	a.cash += delta
	if math.Abs(a.cash) < dust {
		a.cash = 0
	}
}

// Value returns the value of the assets, what-ifs and available cash excluded.
func (a *Account) Value() float64 {
	total := 0.0
	for _, asset := range a.assets {
		total += asset.Value()
	}
	return total
}

// Total returns the value of the assets with their what-ifs, plus the available cash.
func (a *Account) Total() float64 {
	total := a.cash
	for _, asset := range a.assets {
		total += asset.AdjustedValue()
	}
	return total
}
