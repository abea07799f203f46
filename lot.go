package allocation

import (
	"fmt"

	"github.com/etnz/allocation/date"
)

// TaxLot is a purchase of a number of shares of an asset, at a given unit cost.
type TaxLot struct {
	Date     date.Date
	Quantity float64
	UnitCost float64
}

// NewTaxLot returns a new, checked, tax lot.
func NewTaxLot(on date.Date, quantity, unitCost float64) (TaxLot, error) {
	if on.IsZero() {
		return TaxLot{}, fmt.Errorf("tax lot without a date")
	}
	if quantity < 0 {
		return TaxLot{}, fmt.Errorf("tax lot of %v has a negative quantity %v", on, quantity)
	}
	if unitCost < 0 {
		return TaxLot{}, fmt.Errorf("tax lot of %v has a negative unit cost %v", on, unitCost)
	}
	return TaxLot{Date: on, Quantity: quantity, UnitCost: unitCost}, nil
}

// Cost returns the cost basis of the lot.
func (l TaxLot) Cost() float64 { return l.Quantity * l.UnitCost }

// Gain returns the unrealized gain of the lot at price, negative for a loss.
func (l TaxLot) Gain(price float64) float64 { return (price - l.UnitCost) * l.Quantity }

// Loss returns the unrealized loss of the lot at price, negative for a gain.
func (l TaxLot) Loss(price float64) float64 { return -l.Gain(price) }

// Term returns the holding period of the lot on a given day. A lot held for more than one year
// is long term.
func (l TaxLot) Term(on date.Date) Term {
	if on.After(l.Date.AddYears(1)) {
		return LongTerm
	}
	return ShortTerm
}

// Term is the holding period of a tax lot.
type Term int

const (
	ShortTerm Term = iota
	LongTerm
)

func (t Term) String() string {
	if t == LongTerm {
		return "LT"
	}
	return "ST"
}

// LotGain is the unrealized gain of a tax lot at the current price.
type LotGain struct {
	Account     string
	Asset       string // short name of the asset
	Lot         TaxLot
	Gain        float64
	GainPercent Percent // relative to the cost of the lot
	Term        Term
}

// gainOf computes the gain of lot at price on a given day.
func gainOf(lot TaxLot, price float64, on date.Date) LotGain {
	g := LotGain{Lot: lot, Gain: lot.Gain(price), Term: lot.Term(on)}
	if cost := lot.Cost(); cost != 0 {
		g.GainPercent = Ratio(g.Gain / cost)
	}
	return g
}
