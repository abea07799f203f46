package allocation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCash is returned when an account has no available cash to allocate and rebalancing was
// not requested.
var ErrNoCash = errors.New("no available cash to allocate")

// ErrInvalidThreshold is returned when an analyzer threshold is out of its valid range.
var ErrInvalidThreshold = errors.New("invalid threshold")

// ConfigurationError reports a malformed asset class tree: sibling weights that do not add up to
// 100%, duplicate class names, or an asset mapping that references a class the tree does not
// have as a leaf. It is fatal and never corrected silently.
type ConfigurationError struct {
	Class  string // offending asset class, if any
	Asset  string // offending asset, if any
	Reason string
	// Got and Want carry the numeric discrepancy when there is one.
	Got, Want float64
	Numeric   bool
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid asset class configuration")
	if e.Class != "" {
		fmt.Fprintf(&b, " for class %q", e.Class)
	}
	if e.Asset != "" {
		fmt.Fprintf(&b, " in asset %q", e.Asset)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Numeric {
		fmt.Fprintf(&b, " (got %g, want %g)", e.Got, e.Want)
	}
	return b.String()
}

// CoverageError reports a selection of asset classes that is not a cut of the tree: some
// selected classes overlap, or some leaves are not covered by any of them.
type CoverageError struct {
	Overlapping []string // selected classes sharing leaves with another selected class
	Uncovered   []string // leaves not covered by the selection
	Unknown     []string // selected names that are not in the tree
}

func (e *CoverageError) Error() string {
	var parts []string
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("unknown classes %q", e.Unknown))
	}
	if len(e.Overlapping) > 0 {
		parts = append(parts, fmt.Sprintf("overlapping classes %q", e.Overlapping))
	}
	if len(e.Uncovered) > 0 {
		parts = append(parts, fmt.Sprintf("uncovered classes %q", e.Uncovered))
	}
	return "asset classes do not cover the full tree exactly once: " + strings.Join(parts, ", ")
}

// InputInconsistencyError reports inputs that cannot be honored: a class mapping that does not
// sum to 100%, or a cash delta that cannot be placed given the exclusions.
type InputInconsistencyError struct {
	Asset  string
	Reason string
	// Got and Want carry the numeric discrepancy when there is one.
	Got, Want float64
	Numeric   bool
}

func (e *InputInconsistencyError) Error() string {
	var b strings.Builder
	b.WriteString("inconsistent input")
	if e.Asset != "" {
		fmt.Fprintf(&b, " for asset %q", e.Asset)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Numeric {
		fmt.Fprintf(&b, " (got %.2f, want %.2f)", e.Got, e.Want)
	}
	return b.String()
}
