package allocation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// threeFundDollars is the money of a small three fund portfolio.
var threeFundDollars = map[string]float64{"US": 230.00, "Intl": 131.86, "Bonds": 226.80}

func TestComputeAllocation(t *testing.T) {
	root, err := ComputeAllocation(threeFund(), threeFundDollars)
	if err != nil {
		t.Fatalf("ComputeAllocation() error = %v", err)
	}
	if !near(root.Value, 588.66, 1e-9) {
		t.Errorf("root.Value = %v, want 588.66", root.Value)
	}

	testCases := []struct {
		class           string
		actual, desired float64 // rounded percentage of the whole
		actualOfParent  float64
		difference      float64
	}{
		{class: "US", actual: 39.1, desired: 36, actualOfParent: 63.6, difference: -18.0824},
		{class: "Intl", actual: 22.4, desired: 24, actualOfParent: 36.4, difference: 9.4184},
		{class: "Bonds", actual: 38.5, desired: 40, actualOfParent: 38.5, difference: 8.664},
		{class: "Equity", actual: 61.5, desired: 60, actualOfParent: 61.5, difference: -8.664},
	}
	for _, tc := range testCases {
		n := root.Find(tc.class)
		if n == nil {
			t.Errorf("Find(%q) = nil", tc.class)
			continue
		}
		if got := n.ActualPercent().Rounded(); got != tc.actual {
			t.Errorf("%s: ActualPercent() = %v, want %v", tc.class, got, tc.actual)
		}
		if got := n.DesiredPercent().Rounded(); got != tc.desired {
			t.Errorf("%s: DesiredPercent() = %v, want %v", tc.class, got, tc.desired)
		}
		if got := n.ActualPercentOfParent().Rounded(); got != tc.actualOfParent {
			t.Errorf("%s: ActualPercentOfParent() = %v, want %v", tc.class, got, tc.actualOfParent)
		}
		if !near(n.Difference, tc.difference, 1e-6) {
			t.Errorf("%s: Difference = %v, want %v", tc.class, n.Difference, tc.difference)
		}
	}
}

func TestComputeAllocation_Properties(t *testing.T) {
	inputs := []map[string]float64{
		threeFundDollars,
		{"US": 1},
		{"US": 0.01, "Intl": 1e6, "Bonds": 3},
		{},
	}
	for _, dollars := range inputs {
		root, err := ComputeAllocation(threeFund(), dollars)
		if err != nil {
			t.Fatalf("ComputeAllocation(%v) error = %v", dollars, err)
		}
		root.Walk(func(n *AllocationNode, _ int) {
			if n.IsLeaf() {
				return
			}
			sum := 0.0
			for _, c := range n.Children {
				sum += c.DesiredOfParent
			}
			if !near(sum, 1, WeightTolerance) {
				t.Errorf("%v: desired of children of %s add up to %v, want 1", dollars, n.Name, sum)
			}
		})

		sum, diff := 0.0, 0.0
		for _, l := range root.Leaves() {
			sum += l.ActualOfWhole
			diff += l.Difference
		}
		want := 1.0
		if root.Value == 0 {
			want = 0
		}
		if !near(sum, want, 1e-9) {
			t.Errorf("%v: actual of whole of leaves add up to %v, want %v", dollars, sum, want)
		}
		if !near(diff, 0, 1e-6) {
			t.Errorf("%v: differences of leaves add up to %v, want 0", dollars, diff)
		}
	}
}

func TestComputeAllocation_KeepsEveryClass(t *testing.T) {
	tree := NewAssetClass("All").
		AddSubclass(1, NewAssetClass("US")).
		AddSubclass(0, NewAssetClass("Gold"))
	root, err := ComputeAllocation(tree, map[string]float64{"Gold": 10})
	if err != nil {
		t.Fatalf("ComputeAllocation() error = %v", err)
	}
	var names []string
	for _, l := range root.Leaves() {
		names = append(names, l.Name)
	}
	if diff := cmp.Diff([]string{"US", "Gold"}, names); diff != "" {
		t.Errorf("Leaves() mismatch (-want +got):\n%s", diff)
	}
	gold := root.Find("Gold")
	if gold.ActualOfWhole != 1 || gold.DesiredOfWhole != 0 || gold.Difference != -10 {
		t.Errorf("Gold = %+v, want actual 1, desired 0, difference -10", gold)
	}
}

func TestComputeAllocation_Errors(t *testing.T) {
	var cfgErr *ConfigurationError

	_, err := ComputeAllocation(threeFund(), map[string]float64{"Gold": 1})
	if !errors.As(err, &cfgErr) || cfgErr.Class != "Gold" {
		t.Errorf("ComputeAllocation(unknown leaf) error = %v, want *ConfigurationError for Gold", err)
	}
	_, err = ComputeAllocation(threeFund(), map[string]float64{"Equity": 1})
	if !errors.As(err, &cfgErr) || cfgErr.Class != "Equity" {
		t.Errorf("ComputeAllocation(non leaf) error = %v, want *ConfigurationError for Equity", err)
	}
	bad := NewAssetClass("All").AddSubclass(0.5, NewAssetClass("US"))
	if _, err := ComputeAllocation(bad, nil); !errors.As(err, &cfgErr) {
		t.Errorf("ComputeAllocation(invalid tree) error = %v, want *ConfigurationError", err)
	}
}

func TestComputeAllocationForSubset(t *testing.T) {
	root, err := ComputeAllocationForSubset(threeFund(), threeFundDollars, []string{"Equity", "Bonds"})
	if err != nil {
		t.Fatalf("ComputeAllocationForSubset() error = %v", err)
	}
	if root.Name != "All" || len(root.Children) != 2 {
		t.Fatalf("ComputeAllocationForSubset() = %+v, want All with 2 children", root)
	}
	equity := root.Children[0]
	if equity.Name != "Equity" || !near(equity.Value, 361.86, 1e-9) || !near(equity.DesiredOfWhole, 0.6, 1e-12) {
		t.Errorf("Equity = %+v, want value 361.86, desired 0.6", equity)
	}
	if !near(equity.Difference, -8.664, 1e-6) {
		t.Errorf("Equity.Difference = %v, want -8.664", equity.Difference)
	}
}

func TestComputeAllocationForSubset_AllLeavesIsNoop(t *testing.T) {
	tree := threeFund()
	whole, err := ComputeAllocation(tree, threeFundDollars)
	if err != nil {
		t.Fatalf("ComputeAllocation() error = %v", err)
	}
	cut, err := ComputeAllocationForSubset(tree, threeFundDollars, tree.Leaves())
	if err != nil {
		t.Fatalf("ComputeAllocationForSubset() error = %v", err)
	}
	for i, want := range whole.Leaves() {
		got := cut.Children[i]
		if got.Name != want.Name || got.ActualOfWhole != want.ActualOfWhole || got.Value != want.Value {
			t.Errorf("leaf %d = %+v, want %+v", i, got, want)
		}
		if !near(got.DesiredOfWhole, want.DesiredOfWhole, 1e-12) || !near(got.Difference, want.Difference, 1e-9) {
			t.Errorf("leaf %s: desired %v difference %v, want %v %v", got.Name, got.DesiredOfWhole, got.Difference, want.DesiredOfWhole, want.Difference)
		}
	}
}

func TestComputeAllocationForSubset_Coverage(t *testing.T) {
	testCases := []struct {
		name  string
		names []string
		want  CoverageError
	}{
		{
			name:  "overlap",
			names: []string{"Equity", "US", "Bonds"},
			want:  CoverageError{Overlapping: []string{"Equity", "US"}},
		},
		{
			name:  "gap",
			names: []string{"US", "Bonds"},
			want:  CoverageError{Uncovered: []string{"Intl"}},
		},
		{
			name:  "unknown",
			names: []string{"Equity", "Bonds", "Gold"},
			want:  CoverageError{Unknown: []string{"Gold"}},
		},
		{
			name:  "duplicate",
			names: []string{"Equity", "Bonds", "Bonds"},
			want:  CoverageError{Overlapping: []string{"Bonds"}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeAllocationForSubset(threeFund(), threeFundDollars, tc.names)
			var got *CoverageError
			if !errors.As(err, &got) {
				t.Fatalf("ComputeAllocationForSubset() error = %v, want *CoverageError", err)
			}
			if diff := cmp.Diff(tc.want, *got); diff != "" {
				t.Errorf("ComputeAllocationForSubset() error mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
