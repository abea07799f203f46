// Package renderer turns portfolio views into Markdown documents.
//
// Every function returns a complete document; the command line prints it as is, or through a
// terminal renderer.
package renderer

import (
	"fmt"

	"github.com/etnz/allocation"
)

// dollars formats v as "$1,234.56".
func dollars(v float64) string { return allocation.Dollars(v).String() }

// delta formats v as "+$6.00" or "-$4.00".
func delta(v float64) string { return allocation.Dollars(v).SignedString() }

// shares formats a number of shares, without trailing zeros.
func shares(v float64) string { return fmt.Sprintf("%.4g", v) }

// whole formats a percentage without decimals, as in the compact allocation.
func whole(p allocation.Percent) string { return fmt.Sprintf("%.0f%%", float64(p)) }
