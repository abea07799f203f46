package allocation

import "math"

// BandViolation is a leaf asset class whose actual allocation drifted out of its rebalance band.
type BandViolation struct {
	Class      string
	Actual     Percent // of the whole portfolio
	Desired    Percent // of the whole portfolio
	Value      float64
	Difference float64 // money to add to get back to the desired allocation

	AbsoluteDeviation Percent // |actual − desired|
	RelativeDeviation Percent // |actual − desired| / desired, zero when desired is zero
}

// CheckBands returns the leaf classes of the allocation whose actual percentage is out of band,
// in declaration order.
//
// A leaf is out of band when |actual − desired| > maxAbsolute percentage points, or when
// |actual − desired| / desired > maxRelative percent. A leaf with a zero target is out of band as
// soon as it holds any money. The result is empty when every class is within its band.
func CheckBands(root *AllocationNode, maxAbsolute, maxRelative Percent) []BandViolation {
	var violations []BandViolation
	for _, leaf := range root.Leaves() {
		actual, desired := leaf.ActualPercent(), leaf.DesiredPercent()
		abs := Percent(math.Abs(float64(actual - desired)))
		v := BandViolation{
			Class:             leaf.Name,
			Actual:            actual,
			Desired:           desired,
			Value:             leaf.Value,
			Difference:        leaf.Difference,
			AbsoluteDeviation: abs,
		}
		out := abs > maxAbsolute
		if desired > 0 {
			v.RelativeDeviation = Ratio(float64(abs / desired))
			out = out || v.RelativeDeviation > maxRelative
		} else if actual > 0 {
			out = true
		}
		if out {
			violations = append(violations, v)
		}
	}
	return violations
}
