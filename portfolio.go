package allocation

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/etnz/allocation/date"
)

// Portfolio is a set of accounts invested according to a desired asset allocation.
type Portfolio struct {
	classes  *AssetClass
	accounts []*Account
}

// NewPortfolio returns an empty portfolio with the given desired asset allocation.
func NewPortfolio(classes *AssetClass) (*Portfolio, error) {
	if classes == nil {
		return nil, &ConfigurationError{Reason: "missing asset classes"}
	}
	if err := classes.Validate(); err != nil {
		return nil, err
	}
	return &Portfolio{classes: classes}, nil
}

// Classes returns the desired asset allocation.
func (p *Portfolio) Classes() *AssetClass { return p.classes }

// Accounts returns the accounts in declaration order.
func (p *Portfolio) Accounts() []*Account { return p.accounts }

// AddAccount adds an account to the portfolio. Every asset of the account must map to leaf
// classes of the portfolio. An account with the same name is an error unless replace is true.
func (p *Portfolio) AddAccount(a *Account, replace bool) error {
	leaves := p.classes.leafSet()
	for _, asset := range a.assets {
		if err := asset.Mapping().checkLeaves(asset.ShortName(), leaves); err != nil {
			return fmt.Errorf("cannot add account %q: %w", a.name, err)
		}
	}
	i := slices.IndexFunc(p.accounts, func(x *Account) bool { return x.name == a.name })
	switch {
	case i < 0:
		p.accounts = append(p.accounts, a)
	case replace:
		p.accounts[i] = a
	default:
		return fmt.Errorf("portfolio already has an account %q", a.name)
	}
	return nil
}

// Account returns the account with the given name.
func (p *Portfolio) Account(name string) (*Account, bool) {
	i := slices.IndexFunc(p.accounts, func(x *Account) bool { return x.name == name })
	if i < 0 {
		return nil, false
	}
	return p.accounts[i], true
}

// AccountBySubstr returns the only account whose name contains substr. An exact match always
// wins.
func (p *Portfolio) AccountBySubstr(substr string) (*Account, error) {
	if a, ok := p.Account(substr); ok {
		return a, nil
	}
	var matches []string
	var found *Account
	for _, a := range p.accounts {
		if strings.Contains(a.name, substr) {
			matches = append(matches, a.name)
			found = a
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no account matching %q", substr)
	case 1:
		return found, nil
	}
	return nil, fmt.Errorf("%q matches more than one account: %s", substr, strings.Join(matches, ", "))
}

// AssetBySubstr looks up an asset across all the accounts, or only in the account matching
// accountSubstr when it is not empty.
func (p *Portfolio) AssetBySubstr(accountSubstr, assetSubstr string) (*Account, Asset, error) {
	if accountSubstr != "" {
		a, err := p.AccountBySubstr(accountSubstr)
		if err != nil {
			return nil, nil, err
		}
		asset, err := a.AssetBySubstr(assetSubstr)
		return a, asset, err
	}
	type match struct {
		account *Account
		asset   Asset
	}
	var matches []match
	for _, a := range p.accounts {
		if asset, err := a.AssetBySubstr(assetSubstr); err == nil {
			matches = append(matches, match{a, asset})
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil, fmt.Errorf("no single asset matching %q", assetSubstr)
	case 1:
		return matches[0].account, matches[0].asset, nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.account.name + "/" + m.asset.ShortName()
	}
	return nil, nil, fmt.Errorf("%q matches assets in more than one account: %s", assetSubstr, strings.Join(names, ", "))
}

// TickerAssets returns every asset whose value is resolved by a Quoter.
func (p *Portfolio) TickerAssets() []*TickerAsset {
	var res []*TickerAsset
	for _, a := range p.accounts {
		for _, asset := range a.assets {
			if t, ok := asset.(*TickerAsset); ok {
				res = append(res, t)
			}
		}
	}
	return res
}

// Resolve fetches the price of every ticker asset.
func (p *Portfolio) Resolve(q Quoter) error {
	for _, t := range p.TickerAssets() {
		if err := t.Resolve(q); err != nil {
			return err
		}
	}
	return nil
}

// WhatIf adds a hypothetical delta to an asset. The money comes from (or goes to) the available
// cash of its account.
func (p *Portfolio) WhatIf(account, asset string, delta float64) error {
	a, ok := p.Account(account)
	if !ok {
		return fmt.Errorf("unknown account %q", account)
	}
	x, ok := a.Asset(asset)
	if !ok {
		return fmt.Errorf("account %q has no asset %q", account, asset)
	}
	x.WhatIf(delta)
	a.AddCash(-delta)
	return nil
}

// WhatIfCash adds delta to the available cash of an account.
func (p *Portfolio) WhatIfCash(account string, delta float64) error {
	a, ok := p.Account(account)
	if !ok {
		return fmt.Errorf("unknown account %q", account)
	}
	a.AddCash(delta)
	return nil
}

// AccountWhatIf is the available cash of an account.
type AccountWhatIf struct {
	Account string
	Cash    float64
}

// AssetWhatIf is the hypothetical delta of an asset.
type AssetWhatIf struct {
	Account string
	Asset   string
	Delta   float64
}

// WhatIfs lists the non-zero what-ifs of the portfolio.
func (p *Portfolio) WhatIfs() ([]AccountWhatIf, []AssetWhatIf) {
	var accounts []AccountWhatIf
	var assets []AssetWhatIf
	for _, a := range p.accounts {
		if a.cash != 0 {
			accounts = append(accounts, AccountWhatIf{Account: a.name, Cash: a.cash})
		}
		for _, asset := range a.assets {
			if d := asset.Delta(); d != 0 {
				assets = append(assets, AssetWhatIf{Account: a.name, Asset: asset.ShortName(), Delta: d})
			}
		}
	}
	return accounts, assets
}

// ResetWhatIfs removes all what-ifs and available cash.
func (p *Portfolio) ResetWhatIfs() {
	for _, a := range p.accounts {
		a.AddCash(-a.cash)
		for _, asset := range a.assets {
			asset.WhatIf(-asset.Delta())
		}
	}
}

// TotalValue returns the value of all accounts, what-ifs and available cash included.
func (p *Portfolio) TotalValue() float64 {
	total := 0.0
	for _, a := range p.accounts {
		total += a.Total()
	}
	return total
}

// LeafDollars returns the money invested in each leaf class, what-ifs included.
func (p *Portfolio) LeafDollars() map[string]float64 {
	return p.leafDollars(nil)
}

// leafDollars is LeafDollars skipping the assets of one account.
func (p *Portfolio) leafDollars(skip *Account) map[string]float64 {
	dollars := make(map[string]float64)
	for _, a := range p.accounts {
		if a == skip {
			continue
		}
		for _, asset := range a.assets {
			v := asset.AdjustedValue()
			for class, r := range asset.Mapping() {
				dollars[class] += r * v
			}
		}
	}
	return dollars
}

// Allocation computes the allocation of the whole tree.
func (p *Portfolio) Allocation() (*AllocationNode, error) {
	return ComputeAllocation(p.classes, p.LeafDollars())
}

// AllocationForClasses computes the allocation across a cut of the tree.
func (p *Portfolio) AllocationForClasses(names []string) (*AllocationNode, error) {
	return ComputeAllocationForSubset(p.classes, p.LeafDollars(), names)
}

// Location is the part of a leaf class held in one type of account.
type Location struct {
	Class       string
	AccountType string
	Percent     Percent // of the class
	Value       float64
}

// AssetLocation returns where each leaf class is held, by account type. Classes follow the tree
// order; within a class the largest account type comes first. Empty classes are omitted.
func (p *Portfolio) AssetLocation() []Location {
	byType := make(map[string]map[string]float64)
	for _, a := range p.accounts {
		for _, asset := range a.assets {
			v := asset.AdjustedValue()
			for class, r := range asset.Mapping() {
				if byType[class] == nil {
					byType[class] = make(map[string]float64)
				}
				byType[class][a.typ] += r * v
			}
		}
	}
	var res []Location
	for _, class := range p.classes.Leaves() {
		types := byType[class]
		total := 0.0
		for _, v := range types {
			total += v
		}
		if math.Abs(total) < dust {
			continue
		}
		var rows []Location
		for typ, v := range types {
			rows = append(rows, Location{Class: class, AccountType: typ, Percent: Ratio(v / total), Value: v})
		}
		slices.SortFunc(rows, func(x, y Location) int {
			if c := cmp.Compare(y.Value, x.Value); c != 0 {
				return c
			}
			return cmp.Compare(x.AccountType, y.AccountType)
		})
		res = append(res, rows...)
	}
	return res
}

// AccountSummary is the value of an account, or of all the accounts of a type.
type AccountSummary struct {
	Name    string // empty when grouped by type
	Type    string
	Value   float64
	Percent Percent // of the portfolio
}

// AccountSummaries returns the value of each account, or of each account type when groupByType
// is set, in declaration order.
func (p *Portfolio) AccountSummaries(groupByType bool) []AccountSummary {
	var res []AccountSummary
	total := 0.0
	for _, a := range p.accounts {
		v := a.Total()
		total += v
		if groupByType {
			if i := slices.IndexFunc(res, func(s AccountSummary) bool { return s.Type == a.typ }); i >= 0 {
				res[i].Value += v
				continue
			}
			res = append(res, AccountSummary{Type: a.typ, Value: v})
			continue
		}
		res = append(res, AccountSummary{Name: a.name, Type: a.typ, Value: v})
	}
	if total != 0 {
		for i := range res {
			res[i].Percent = Ratio(res[i].Value / total)
		}
	}
	return res
}

// Holding is an asset of the portfolio as listed to the user.
type Holding struct {
	Account   string
	ShortName string
	Name      string
	Shares    float64 // zero for assets without shares
	Value     float64 // what-ifs included
}

// Holdings lists every asset of the portfolio.
func (p *Portfolio) Holdings() []Holding {
	var res []Holding
	for _, a := range p.accounts {
		for _, asset := range a.assets {
			h := Holding{Account: a.name, ShortName: asset.ShortName(), Name: asset.Name(), Value: asset.AdjustedValue()}
			if t, ok := asset.(*TickerAsset); ok {
				h.Shares = t.shares
			}
			res = append(res, h)
		}
	}
	return res
}

// LotGains returns the gain of every tax lot of the portfolio on a given day.
func (p *Portfolio) LotGains(on date.Date) []LotGain {
	var res []LotGain
	for _, a := range p.accounts {
		for _, t := range a.tickerAssets() {
			for _, g := range t.Lots(on) {
				g.Account = a.name
				res = append(res, g)
			}
		}
	}
	return res
}

func (a *Account) tickerAssets() []*TickerAsset {
	var res []*TickerAsset
	for _, asset := range a.assets {
		if t, ok := asset.(*TickerAsset); ok {
			res = append(res, t)
		}
	}
	return res
}

// BandCheck returns the leaf classes out of their rebalance band.
func (p *Portfolio) BandCheck(maxAbsolute, maxRelative Percent) ([]BandViolation, error) {
	if maxAbsolute < 0 || maxRelative < 0 {
		return nil, fmt.Errorf("%w: bands must be positive", ErrInvalidThreshold)
	}
	root, err := p.Allocation()
	if err != nil {
		return nil, err
	}
	return CheckBands(root, maxAbsolute, maxRelative), nil
}

// Harvestable returns the tax lots worth harvesting. See FindHarvestable.
func (p *Portfolio) Harvestable(maxLossPercent Percent, maxLossDollars float64) ([]HarvestableLot, error) {
	var inputs []HarvestInput
	for _, a := range p.accounts {
		for _, t := range a.tickerAssets() {
			if len(t.lots) == 0 {
				continue
			}
			inputs = append(inputs, HarvestInput{Account: a.name, Asset: t.ticker, Price: t.price, Lots: t.lots})
		}
	}
	return FindHarvestable(inputs, maxLossPercent, maxLossDollars)
}

// AllocateAccount invests the available cash of an account (or withdraws it when negative) and
// records the result as what-ifs on its assets. With rebalance, the assets of the account can
// also be sold to buy others. Excluded assets (by short name) are not touched.
//
// It fails with ErrNoCash when the account has no available cash and rebalance is not set.
func (p *Portfolio) AllocateAccount(account string, exclude []string, rebalance bool) (Deltas, error) {
	a, ok := p.Account(account)
	if !ok {
		return nil, fmt.Errorf("unknown account %q", account)
	}
	if a.cash == 0 && !rebalance {
		return nil, fmt.Errorf("account %q: %w", account, ErrNoCash)
	}
	req := AllocateRequest{
		Cash:      a.cash,
		Classes:   p.classes,
		Elsewhere: p.leafDollars(a),
		Exclude:   exclude,
		Rebalance: rebalance,
	}
	for _, asset := range a.assets {
		req.Assets = append(req.Assets, AssetValue{Name: asset.ShortName(), Value: asset.AdjustedValue(), Mapping: asset.Mapping()})
	}
	deltas, err := Allocate(req)
	if err != nil {
		return nil, fmt.Errorf("cannot allocate account %q: %w", account, err)
	}
	for _, d := range deltas {
		if d.Delta == 0 {
			continue
		}
		if err := p.WhatIf(account, d.Name, d.Delta); err != nil {
			return nil, err
		}
	}
	return deltas, nil
}
