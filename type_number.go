package allocation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// parseDecimal parses a decimal number written by a human: thousands separators, a leading
// dollar sign and surrounding spaces are accepted ("$1,234.56").
func parseDecimal(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	neg := strings.HasPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// Number is a float64 that decodes from YAML either as a plain number or as a string with
// thousands separators ("12,345.67").
type Number float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	d, err := parseDecimal(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*n = Number(d.InexactFloat64())
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (n Number) MarshalYAML() (any, error) { return float64(n), nil }
