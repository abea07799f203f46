package renderer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/etnz/allocation"
	"github.com/etnz/allocation/date"
)

func threeFund(t *testing.T) *allocation.AllocationNode {
	t.Helper()
	tree := allocation.NewAssetClass("All").
		AddSubclass(0.6, allocation.NewAssetClass("Equity").
			AddSubclass(0.6, allocation.NewAssetClass("US")).
			AddSubclass(0.4, allocation.NewAssetClass("Intl"))).
		AddSubclass(0.4, allocation.NewAssetClass("Bonds"))
	root, err := allocation.ComputeAllocation(tree, map[string]float64{"US": 60, "Intl": 30, "Bonds": 10})
	if err != nil {
		t.Fatalf("ComputeAllocation() error = %v", err)
	}
	return root
}

// contains checks that every want is in got.
func contains(t *testing.T, name, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("%s does not contain %q:\n%s", name, w, got)
		}
	}
}

func TestAllocationMarkdown(t *testing.T) {
	got := AllocationMarkdown(threeFund(t))
	contains(t, "AllocationMarkdown()", got,
		"# Asset Allocation", "**$100.00**",
		"## All", "## Equity",
		"90.0%", "60.0%", // Equity of All
		"66.7%", "33.3%", // US, Intl of Equity
		"+$30.00", // Bonds are missing 30
	)
	if strings.Contains(got, "## US") {
		t.Errorf("AllocationMarkdown() renders a section for a leaf:\n%s", got)
	}
}

func TestCompactMarkdown(t *testing.T) {
	got := CompactMarkdown(threeFund(t))
	contains(t, "CompactMarkdown()", got,
		"Equity", "90%", "67%", "33%",
		"36.0%", // desired US of the whole
		"-$24.00", "-$6.00", "+$30.00",
	)
	lines := strings.Count(got, "\n|")
	if lines < 5 { // header, separator and one row per leaf
		t.Errorf("CompactMarkdown() has %d table lines, want at least 5:\n%s", lines, got)
	}

	leafOnly, err := allocation.ComputeAllocation(allocation.NewAssetClass("All"), map[string]float64{"All": 10})
	if err != nil {
		t.Fatalf("ComputeAllocation() error = %v", err)
	}
	contains(t, "CompactMarkdown(leaf)", CompactMarkdown(leafOnly), "All", "100.0%", "$10.00")
}

func TestClassesMarkdown(t *testing.T) {
	tree := allocation.NewAssetClass("All").
		AddSubclass(0.6, allocation.NewAssetClass("Equity").
			AddSubclass(0.6, allocation.NewAssetClass("US")).
			AddSubclass(0.4, allocation.NewAssetClass("Intl"))).
		AddSubclass(0.4, allocation.NewAssetClass("Bonds"))
	root, err := allocation.ComputeAllocationForSubset(tree, map[string]float64{"US": 60, "Intl": 30, "Bonds": 10}, []string{"Equity", "Bonds"})
	if err != nil {
		t.Fatalf("ComputeAllocationForSubset() error = %v", err)
	}
	contains(t, "ClassesMarkdown()", ClassesMarkdown(root), "Equity", "Bonds", "90.0%", "40.0%", "-$30.00")
}

func TestAssetsMarkdown(t *testing.T) {
	got := AssetsMarkdown([]allocation.Holding{
		{Account: "Schwab", ShortName: "VTI", Name: "Total Stock", Shares: 12.5, Value: 2500},
		{Account: "Home", ShortName: "House", Name: "House", Value: 1e5},
	})
	contains(t, "AssetsMarkdown()", got, "Schwab", "VTI", "Total Stock", "12.5", "$2,500.00", "$100,000.00", "**$102,500.00**")
}

func TestAccountsMarkdown(t *testing.T) {
	got := AccountsMarkdown([]allocation.AccountSummary{
		{Name: "Schwab", Type: "Taxable", Value: 750, Percent: 75},
		{Name: "401k", Type: "401(k)", Value: 250, Percent: 25},
	})
	contains(t, "AccountsMarkdown()", got, "Account", "Schwab", "Taxable", "$750.00", "75.0%")

	got = AccountsMarkdown([]allocation.AccountSummary{{Type: "Taxable", Value: 1000, Percent: 100}})
	contains(t, "AccountsMarkdown(by type)", got, "Taxable", "100.0%")
	if strings.Contains(got, "Account |") {
		t.Errorf("AccountsMarkdown(by type) has an account column:\n%s", got)
	}
}

func TestLocationMarkdown(t *testing.T) {
	got := LocationMarkdown([]allocation.Location{
		{Class: "US", AccountType: "Taxable", Percent: 80, Value: 80},
		{Class: "US", AccountType: "Roth", Percent: 20, Value: 20},
	})
	contains(t, "LocationMarkdown()", got, "Taxable", "Roth", "80.0%", "$20.00")
	if n := strings.Count(got, "US"); n != 1 {
		t.Errorf("LocationMarkdown() repeats the class %d times, want 1:\n%s", n, got)
	}
}

func TestWhatIfsMarkdown(t *testing.T) {
	got := WhatIfsMarkdown(nil, nil)
	contains(t, "WhatIfsMarkdown(none)", got, "No what ifs.")

	got = WhatIfsMarkdown(nil, []allocation.AssetWhatIf{{Account: "Schwab", Asset: "VTI", Delta: -10}})
	contains(t, "WhatIfsMarkdown()", got, "## Asset What Ifs", "VTI", "-$10.00")
	if strings.Contains(got, "Account What Ifs") {
		t.Errorf("WhatIfsMarkdown() renders an empty section:\n%s", got)
	}
}

func testLots(t *testing.T) []allocation.LotGain {
	t.Helper()
	lot, err := allocation.NewTaxLot(date.New(2020, time.March, 1), 10, 20)
	if err != nil {
		t.Fatalf("NewTaxLot() error = %v", err)
	}
	return []allocation.LotGain{{Account: "Schwab", Asset: "VTI", Lot: lot, Gain: -50.004, GainPercent: -25, Term: allocation.LongTerm}}
}

func TestLotsMarkdown(t *testing.T) {
	contains(t, "LotsMarkdown()", LotsMarkdown(testLots(t)), "VTI", "2020/03/01", "$200.00", "-$50.00", "-25.0%", "LT")
	contains(t, "LotsMarkdown(none)", LotsMarkdown(nil), "No tax lots.")
}

func TestLotsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := LotsCSV(&buf, testLots(t)); err != nil {
		t.Fatalf("LotsCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("LotsCSV() = %q, want a header and a line", buf.String())
	}
	if want := "Account,Asset,Date,Quantity,Unit Cost,Gain,Gain%,Term"; lines[0] != want {
		t.Errorf("LotsCSV() header = %q, want %q", lines[0], want)
	}
	contains(t, "LotsCSV()", lines[1], "Schwab,VTI,2020/03/01,10,20,-50,-25,LT")
}

func TestHarvestMarkdown(t *testing.T) {
	lot, err := allocation.NewTaxLot(date.New(2020, time.March, 1), 1, 226)
	if err != nil {
		t.Fatalf("NewTaxLot() error = %v", err)
	}
	got := HarvestMarkdown([]allocation.HarvestableLot{{Account: "Schwab", Asset: "VTI", Lot: lot, Loss: 4, LossPercent: 1.77, Reason: allocation.ByPercent}})
	contains(t, "HarvestMarkdown()", got, "VTI", "$4.00", "1.8%", "percent", allocation.SpecificLotCaveat)
	contains(t, "HarvestMarkdown(none)", HarvestMarkdown(nil), "No lots to harvest.")
}

func TestBandsMarkdown(t *testing.T) {
	got := BandsMarkdown([]allocation.BandViolation{{Class: "Bond", Actual: 14, Desired: 10, Value: 14, Difference: -4, AbsoluteDeviation: 4, RelativeDeviation: 40}}, 5, 25)
	contains(t, "BandsMarkdown()", got, "5.0%", "25.0%", "Bond", "14.0%", "-$4.00", "40.0%")
	contains(t, "BandsMarkdown(none)", BandsMarkdown(nil, 5, 25), "within their bands")
}

func TestAllocateMarkdown(t *testing.T) {
	got := AllocateMarkdown("Schwab", allocation.Deltas{{Name: "VTI", Delta: 60}, {Name: "BND", Delta: 40}})
	contains(t, "AllocateMarkdown()", got, "# Allocation of Schwab", "+$60.00", "+$40.00", "**+$100.00**")
}
