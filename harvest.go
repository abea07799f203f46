package allocation

import (
	"fmt"
	"math"
	"strings"
)

// SpecificLotCaveat is the assumption behind harvestable lots that callers should show their
// users. Wash sales are not checked either.
const SpecificLotCaveat = "Assumes specific lot identification: make sure your broker sells these exact lots. Wash sales are not checked."

// HarvestReason tells which threshold made a lot harvestable.
type HarvestReason uint8

const (
	// ByPercent is set when the loss of the lot reaches the percentage threshold.
	ByPercent HarvestReason = 1 << iota
	// ByDollars is set when the losses of the asset reach the dollar threshold.
	ByDollars
)

func (r HarvestReason) String() string {
	var parts []string
	if r&ByPercent != 0 {
		parts = append(parts, "percent")
	}
	if r&ByDollars != 0 {
		parts = append(parts, "dollars")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// HarvestInput is an asset to scan for losses with its resolved price.
type HarvestInput struct {
	Account string
	Asset   string
	Price   float64
	Lots    []TaxLot
}

// HarvestableLot is a tax lot with an unrealized loss worth harvesting.
type HarvestableLot struct {
	Account     string
	Asset       string
	Lot         TaxLot
	Loss        float64 // positive amount of money lost
	LossPercent Percent // loss relative to the cost of the lot
	Reason      HarvestReason
}

// FindHarvestable returns the lots with an unrealized loss worth harvesting, in input order.
//
// A lot qualifies when its loss is at least maxLossPercent of its cost, or when the losses of all
// the lots of its asset add up to at least maxLossDollars. A zero threshold is disabled. Both
// checks run independently and the Reason of each lot records which ones matched. Only lots
// with a loss are ever returned.
//
// See SpecificLotCaveat.
func FindHarvestable(assets []HarvestInput, maxLossPercent Percent, maxLossDollars float64) ([]HarvestableLot, error) {
	if maxLossPercent < 0 || math.IsNaN(float64(maxLossPercent)) {
		return nil, fmt.Errorf("%w: loss percentage %v", ErrInvalidThreshold, maxLossPercent)
	}
	if maxLossDollars < 0 || math.IsNaN(maxLossDollars) {
		return nil, fmt.Errorf("%w: loss amount %v", ErrInvalidThreshold, maxLossDollars)
	}

	var res []HarvestableLot
	for _, a := range assets {
		var (
			lots  []HarvestableLot
			total float64
		)
		for _, lot := range a.Lots {
			loss := lot.Loss(a.Price)
			if loss <= 0 {
				continue
			}
			total += loss
			h := HarvestableLot{Account: a.Account, Asset: a.Asset, Lot: lot, Loss: loss}
			if cost := lot.Cost(); cost > 0 {
				h.LossPercent = Ratio(loss / cost)
			}
			if maxLossPercent > 0 && h.LossPercent >= maxLossPercent {
				h.Reason |= ByPercent
			}
			lots = append(lots, h)
		}
		byDollars := maxLossDollars > 0 && total >= maxLossDollars
		for _, h := range lots {
			if byDollars {
				h.Reason |= ByDollars
			}
			if h.Reason != 0 {
				res = append(res, h)
			}
		}
	}
	return res, nil
}
