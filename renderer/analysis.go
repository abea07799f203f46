package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/allocation"
	md "github.com/nao1215/markdown"
)

// BandsMarkdown renders the asset classes out of their rebalance bands.
func BandsMarkdown(violations []allocation.BandViolation, maxAbsolute, maxRelative allocation.Percent) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Rebalance Bands")
	doc.PlainText(fmt.Sprintf("Absolute band: %s, relative band: %s.", maxAbsolute, maxRelative))
	if len(violations) == 0 {
		doc.PlainText("All asset classes are within their bands.")
		return doc.String()
	}
	table := md.TableSet{Header: []string{"Class", "Actual", "Desired", "Value", "Difference", "Abs. Deviation", "Rel. Deviation"}}
	for _, v := range violations {
		table.Rows = append(table.Rows, []string{
			v.Class,
			v.Actual.String(),
			v.Desired.String(),
			dollars(v.Value),
			delta(v.Difference),
			v.AbsoluteDeviation.String(),
			v.RelativeDeviation.String(),
		})
	}
	doc.Table(table)
	return doc.String()
}

// AllocateMarkdown renders how the cash of an account was spread across its assets.
func AllocateMarkdown(account string, deltas allocation.Deltas) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Allocation of " + account)
	table := md.TableSet{Header: []string{"Asset", "Delta"}}
	for _, d := range deltas {
		table.Rows = append(table.Rows, []string{d.Name, delta(d.Delta)})
	}
	table.Rows = append(table.Rows, []string{md.Bold("Total"), md.Bold(delta(deltas.Sum()))})
	doc.Table(table)
	doc.PlainText("The changes were saved as what ifs: review them with `lak whatifs` and clear them with `lak whatif -reset`.")
	return doc.String()
}
