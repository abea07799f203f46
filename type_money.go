package allocation

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency portfolio values are expressed in.
const DefaultCurrency = "USD"

// Money represents a monetary value.
//
// The allocation engine works on float64 dollars; Money is how those amounts are displayed and
// parsed.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// Dollars returns v as a Money in the DefaultCurrency.
func Dollars(v float64) Money { return Money{value: decimal.NewFromFloat(v), cur: DefaultCurrency} }

// ParseMoney parses a decimal amount. Thousands separators (",") are accepted.
func ParseMoney(s string) (Money, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: d, cur: DefaultCurrency}, nil
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, e.g. "$1,234.56".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign, e.g. "+$6.00"
// or "-$4.00".
func (m Money) SignedString() string {
	if m.value.IsNegative() {
		return "-" + m.Abs().String()
	}
	return "+" + m.String()
}

func (m Money) Currency() string             { return m.cur }
func (m Money) Equal(n Money) bool           { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }
func (m Money) Abs() Money                   { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Neg() Money                   { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Add(n Money) Money            { return Money{value: m.value.Add(n.value), cur: m.cur} }
func (m Money) Float() float64               { return m.value.InexactFloat64() }
func (m Money) Round() Money                 { return Money{value: m.value.Round(2), cur: m.cur} }
func (m Money) GreaterThan(n Money) bool     { return m.value.GreaterThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool { return m.value.LessThanOrEqual(n.value) }
