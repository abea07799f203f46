package renderer

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/etnz/allocation"
	"github.com/etnz/allocation/date"
	"github.com/gocarina/gocsv"
	md "github.com/nao1215/markdown"
)

// LotsMarkdown renders the unrealized gain of tax lots.
func LotsMarkdown(lots []allocation.LotGain) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Tax Lots")
	if len(lots) == 0 {
		doc.PlainText("No tax lots.")
		return doc.String()
	}
	table := md.TableSet{Header: []string{"Account", "Asset", "Date", "Quantity", "Cost", "Gain", "Gain%", "Term"}}
	for _, l := range lots {
		table.Rows = append(table.Rows, []string{
			l.Account,
			l.Asset,
			l.Lot.Date.String(),
			shares(l.Lot.Quantity),
			dollars(l.Lot.Cost()),
			delta(l.Gain),
			l.GainPercent.String(),
			l.Term.String(),
		})
	}
	doc.Table(table)
	return doc.String()
}

type lotRecord struct {
	Account     string    `csv:"Account"`
	Asset       string    `csv:"Asset"`
	Date        date.Date `csv:"Date"`
	Quantity    float64   `csv:"Quantity"`
	UnitCost    float64   `csv:"Unit Cost"`
	Gain        float64   `csv:"Gain"`
	GainPercent float64   `csv:"Gain%"`
	Term        string    `csv:"Term"`
}

// LotsCSV writes the tax lots as CSV, one line per lot. Money is rounded to the cent.
func LotsCSV(w io.Writer, lots []allocation.LotGain) error {
	records := make([]lotRecord, 0, len(lots))
	for _, l := range lots {
		records = append(records, lotRecord{
			Account:     l.Account,
			Asset:       l.Asset,
			Date:        l.Lot.Date,
			Quantity:    l.Lot.Quantity,
			UnitCost:    l.Lot.UnitCost,
			Gain:        math.Round(l.Gain*100) / 100,
			GainPercent: l.GainPercent.Rounded(),
			Term:        l.Term.String(),
		})
	}
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("could not write lots: %w", err)
	}
	return nil
}

// HarvestMarkdown renders the lots worth harvesting for their losses.
func HarvestMarkdown(lots []allocation.HarvestableLot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Tax Loss Harvesting")
	if len(lots) == 0 {
		doc.PlainText("No lots to harvest.")
		return doc.String()
	}
	table := md.TableSet{Header: []string{"Account", "Asset", "Date", "Quantity", "Loss", "Loss%", "Reason"}}
	total := 0.0
	for _, l := range lots {
		table.Rows = append(table.Rows, []string{
			l.Account,
			l.Asset,
			l.Lot.Date.String(),
			shares(l.Lot.Quantity),
			dollars(l.Loss),
			l.LossPercent.String(),
			l.Reason.String(),
		})
		total += l.Loss
	}
	doc.Table(table)
	doc.PlainText("Total loss: " + md.Bold(dollars(total)))
	doc.PlainText(allocation.SpecificLotCaveat)
	return doc.String()
}
