package allocation

import (
	"maps"
	"math"
	"slices"
)

// ClassMapping maps leaf asset class names to the fraction of a holding's value invested in
// them. The fractions of one holding add up to 1.
//
// A total market fund maps {"US": 1}; a target date fund could map {"US": 0.5, "Intl": 0.3,
// "Bonds": 0.2}.
type ClassMapping map[string]float64

// Classes returns the mapped class names, sorted.
func (m ClassMapping) Classes() []string { return slices.Sorted(maps.Keys(m)) }

// Validate checks that every fraction is in [0,1] and that they add up to 1 within
// WeightTolerance. asset names the holding in the returned error.
func (m ClassMapping) Validate(asset string) error {
	if len(m) == 0 {
		return &InputInconsistencyError{Asset: asset, Reason: "asset is not mapped to any asset class"}
	}
	total := 0.0
	for _, class := range m.Classes() {
		r := m[class]
		if math.IsNaN(r) || r < 0 || r > 1 {
			return &InputInconsistencyError{Asset: asset, Reason: "ratio of class " + class + " out of [0, 1]", Got: r, Want: 1, Numeric: true}
		}
		total += r
	}
	if math.Abs(total-1) > WeightTolerance {
		return &InputInconsistencyError{Asset: asset, Reason: "class mapping does not add up to 100%", Got: total, Want: 1, Numeric: true}
	}
	return nil
}

// checkLeaves returns a ConfigurationError if m references a class that is not a leaf of the
// tree.
func (m ClassMapping) checkLeaves(asset string, leaves map[string]bool) error {
	for _, class := range m.Classes() {
		if !leaves[class] {
			return &ConfigurationError{Class: class, Asset: asset, Reason: "unknown or non-leaf asset class"}
		}
	}
	return nil
}
