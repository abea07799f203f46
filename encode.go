package allocation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/etnz/allocation/date"
	"gopkg.in/yaml.v3"
)

// The portfolio is persisted as a single human editable YAML document:
//
//	Asset Classes:
//	  Name: All
//	  Children:
//	  - Ratio: 0.6
//	    Name: Equity
//	    Children: ...
//	Accounts:
//	- Name: Schwab Taxable
//	  Account Type: Taxable
//	  Available Cash: 1,000
//	  Assets:
//	  - TickerAsset:
//	      Ticker: VTI
//	      Shares: 10
//	      Asset Mapping: {US: 1}
//	      Tax Lots:
//	      - {Date: 2021/01/02, Quantity: 10, Unit Cost: 200}
//	  - ManualAsset:
//	      Name: Cash
//	      Value: 2,000
//	      Asset Mapping: {Bonds: 1}
//
// Amounts accept thousands separators. Unknown fields are errors.

type portfolioDoc struct {
	Classes  ClassConfig  `yaml:"Asset Classes"`
	Accounts []accountDoc `yaml:"Accounts,omitempty"`
}

type accountDoc struct {
	Name   string     `yaml:"Name"`
	Type   string     `yaml:"Account Type"`
	Assets []assetDoc `yaml:"Assets,omitempty"`
	Cash   Number     `yaml:"Available Cash,omitempty"`
}

// assetDoc holds exactly one kind of asset.
type assetDoc struct {
	Manual *manualDoc `yaml:"ManualAsset,omitempty"`
	Ticker *tickerDoc `yaml:"TickerAsset,omitempty"`
}

type manualDoc struct {
	Name    string       `yaml:"Name"`
	Value   Number       `yaml:"Value"`
	Mapping ClassMapping `yaml:"Asset Mapping"`
	WhatIf  Number       `yaml:"What if,omitempty"`
}

type tickerDoc struct {
	Ticker  string       `yaml:"Ticker"`
	Shares  Number       `yaml:"Shares"`
	Mapping ClassMapping `yaml:"Asset Mapping"`
	Lots    []lotDoc     `yaml:"Tax Lots,omitempty"`
	WhatIf  Number       `yaml:"What if,omitempty"`
}

type lotDoc struct {
	Date     date.Date `yaml:"Date"`
	Quantity Number    `yaml:"Quantity"`
	UnitCost Number    `yaml:"Unit Cost"`
}

// DecodePortfolio reads a portfolio document. When q is not nil, the ticker assets are resolved
// with it.
func DecodePortfolio(r io.Reader, q Quoter) (*Portfolio, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc portfolioDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty portfolio document")
		}
		return nil, fmt.Errorf("invalid portfolio document: %w", err)
	}
	p, err := doc.portfolio()
	if err != nil {
		return nil, err
	}
	if q != nil {
		if err := p.Resolve(q); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (doc portfolioDoc) portfolio() (*Portfolio, error) {
	classes, err := doc.Classes.Build()
	if err != nil {
		return nil, err
	}
	p, err := NewPortfolio(classes)
	if err != nil {
		return nil, err
	}
	for _, ad := range doc.Accounts {
		a := NewAccount(ad.Name, ad.Type)
		a.cash = float64(ad.Cash)
		for i, d := range ad.Assets {
			asset, err := d.asset()
			if err != nil {
				return nil, fmt.Errorf("account %q, asset #%d: %w", ad.Name, i+1, err)
			}
			if err := a.AddAsset(asset, false); err != nil {
				return nil, err
			}
		}
		if err := p.AddAccount(a, false); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (d assetDoc) asset() (Asset, error) {
	switch {
	case d.Manual != nil && d.Ticker != nil:
		return nil, fmt.Errorf("an asset is either a ManualAsset or a TickerAsset, not both")
	case d.Manual != nil:
		m := d.Manual
		a, err := NewManualAsset(m.Name, float64(m.Value), m.Mapping)
		if err != nil {
			return nil, err
		}
		a.WhatIf(float64(m.WhatIf))
		return a, nil
	case d.Ticker != nil:
		t := d.Ticker
		a, err := NewTickerAsset(t.Ticker, float64(t.Shares), t.Mapping)
		if err != nil {
			return nil, err
		}
		var lots []TaxLot
		for _, l := range t.Lots {
			lot, err := NewTaxLot(l.Date, float64(l.Quantity), float64(l.UnitCost))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", t.Ticker, err)
			}
			lots = append(lots, lot)
		}
		if err := a.SetLots(lots); err != nil {
			return nil, err
		}
		a.WhatIf(float64(t.WhatIf))
		return a, nil
	}
	return nil, fmt.Errorf("missing asset kind (ManualAsset or TickerAsset)")
}

// EncodePortfolio writes p as a portfolio document.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	doc := portfolioDoc{Classes: p.classes.Config()}
	for _, a := range p.accounts {
		ad := accountDoc{Name: a.name, Type: a.typ, Cash: Number(a.cash)}
		for _, asset := range a.assets {
			d, err := newAssetDoc(asset)
			if err != nil {
				return fmt.Errorf("account %q: %w", a.name, err)
			}
			ad.Assets = append(ad.Assets, d)
		}
		doc.Accounts = append(doc.Accounts, ad)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func newAssetDoc(asset Asset) (assetDoc, error) {
	switch a := asset.(type) {
	case *ManualAsset:
		return assetDoc{Manual: &manualDoc{Name: a.name, Value: Number(a.value), Mapping: a.mapping, WhatIf: Number(a.delta)}}, nil
	case *TickerAsset:
		t := &tickerDoc{Ticker: a.ticker, Shares: Number(a.shares), Mapping: a.mapping, WhatIf: Number(a.delta)}
		for _, l := range a.lots {
			t.Lots = append(t.Lots, lotDoc{Date: l.Date, Quantity: Number(l.Quantity), UnitCost: Number(l.UnitCost)})
		}
		return assetDoc{Ticker: t}, nil
	}
	return assetDoc{}, fmt.Errorf("cannot encode asset %q of type %T", asset.ShortName(), asset)
}

// LoadPortfolio reads the portfolio file at path. See DecodePortfolio.
func LoadPortfolio(path string, q Quoter) (*Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open portfolio file %q: %w", path, err)
	}
	defer f.Close()

	p, err := DecodePortfolio(f, q)
	if err != nil {
		return nil, fmt.Errorf("could not decode portfolio file %q: %w", path, err)
	}
	return p, nil
}

// SavePortfolio writes p to the file at path. The file is only replaced once the document has
// been fully encoded.
func SavePortfolio(path string, p *Portfolio) error {
	var buf bytes.Buffer
	if err := EncodePortfolio(&buf, p); err != nil {
		return fmt.Errorf("could not encode portfolio: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for portfolio %q: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing portfolio file %q: %w", path, err)
	}
	return nil
}
