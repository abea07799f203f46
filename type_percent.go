package allocation

import (
	"fmt"
	"math"
)

// Percent is a percentage (45.2 means 45.2%).
//
// Computations keep full precision; Percent only rounds when it is displayed.
type Percent float64

// Ratio converts a ratio (0.452) into a Percent (45.2%).
func Ratio(r float64) Percent { return Percent(r * 100) }

// Ratio returns p as a ratio.
func (p Percent) Ratio() float64 { return float64(p) / 100 }

// Rounded returns p rounded to one decimal place.
func (p Percent) Rounded() float64 { return math.Round(float64(p)*10) / 10 }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.1f%%", p.Rounded())
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.1f%%", p.Rounded())
	if res == "+0.0%" || res == "-0.0%" {
		return "-"
	}
	return res
}
