package renderer

import (
	"bytes"
	"io"

	"github.com/etnz/allocation"
	md "github.com/nao1215/markdown"
)

// AssetsMarkdown renders the assets of every account, what-ifs included.
func AssetsMarkdown(holdings []allocation.Holding) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Assets")

	table := md.TableSet{Header: []string{"Account", "Asset", "Name", "Shares", "Value"}}
	total := 0.0
	for _, h := range holdings {
		n := ""
		if h.Shares != 0 {
			n = shares(h.Shares)
		}
		table.Rows = append(table.Rows, []string{h.Account, h.ShortName, h.Name, n, dollars(h.Value)})
		total += h.Value
	}
	table.Rows = append(table.Rows, []string{md.Bold("Total"), "", "", "", md.Bold(dollars(total))})
	doc.Table(table)
	return doc.String()
}

// AccountsMarkdown renders the value of each account, or of each account type.
func AccountsMarkdown(accounts []allocation.AccountSummary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Accounts")

	byType := len(accounts) > 0 && accounts[0].Name == ""
	header := []string{"Account", "Type", "Value", "Percentage"}
	if byType {
		header = []string{"Type", "Value", "Percentage"}
	}
	table := md.TableSet{Header: header}
	for _, a := range accounts {
		row := []string{a.Type, dollars(a.Value), a.Percent.String()}
		if !byType {
			row = append([]string{a.Name}, row...)
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)
	return doc.String()
}

// LocationMarkdown renders how each asset class is spread across account types.
func LocationMarkdown(locations []allocation.Location) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Asset Location")

	table := md.TableSet{Header: []string{"Class", "Account Type", "Percentage", "Value"}}
	previous := ""
	for _, l := range locations {
		class := l.Class
		if class == previous {
			class = ""
		}
		previous = l.Class
		table.Rows = append(table.Rows, []string{class, l.AccountType, l.Percent.String(), dollars(l.Value)})
	}
	doc.Table(table)
	return doc.String()
}

// WhatIfsMarkdown renders the hypothetical changes of the portfolio. Empty sections are skipped.
func WhatIfsMarkdown(accounts []allocation.AccountWhatIf, assets []allocation.AssetWhatIf) string {
	var buf bytes.Buffer
	md.NewMarkdown(&buf).H1("What Ifs").Build()

	ConditionalBlock(&buf, func(w io.Writer) bool {
		table := md.TableSet{Header: []string{"Account", "Cash"}}
		for _, a := range accounts {
			table.Rows = append(table.Rows, []string{a.Account, delta(a.Cash)})
		}
		md.NewMarkdown(w).H2("Account What Ifs").Table(table).Build()
		return len(accounts) > 0
	})
	ConditionalBlock(&buf, func(w io.Writer) bool {
		table := md.TableSet{Header: []string{"Account", "Asset", "Delta"}}
		for _, a := range assets {
			table.Rows = append(table.Rows, []string{a.Account, a.Asset, delta(a.Delta)})
		}
		md.NewMarkdown(w).H2("Asset What Ifs").Table(table).Build()
		return len(assets) > 0
	})
	if len(accounts) == 0 && len(assets) == 0 {
		md.NewMarkdown(&buf).PlainText("No what ifs.").Build()
	}
	return buf.String()
}
