package allocation

import (
	"testing"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m          Money
		want, sign string
	}{
		{Dollars(1234.56), "$1,234.56", "+$1,234.56"},
		{Dollars(-4), "-$4.00", "-$4.00"},
		{Dollars(0), "$0.00", "+$0.00"},
		{Dollars(0.005), "$0.01", "+$0.01"},
		{Dollars(1e6), "$1,000,000.00", "+$1,000,000.00"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
		if got := tc.m.SignedString(); got != tc.sign {
			t.Errorf("SignedString() = %q, want %q", got, tc.sign)
		}
	}
}

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{"1,234.5", 1234.5},
		{" $2,000 ", 2000},
		{"-$3.25", -3.25},
	}
	for _, tc := range testCases {
		m, err := ParseMoney(tc.in)
		if err != nil {
			t.Errorf("ParseMoney(%q) error = %v", tc.in, err)
			continue
		}
		if got := m.Float(); got != tc.want {
			t.Errorf("ParseMoney(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, in := range []string{"", "abc", "1.2.3"} {
		if _, err := ParseMoney(in); err == nil {
			t.Errorf("ParseMoney(%q) succeeded, want an error", in)
		}
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := Dollars(10.25)
	b := Dollars(-3.5)
	if got := a.Add(b); !got.Equal(Dollars(6.75)) {
		t.Errorf("Add() = %v, want $6.75", got)
	}
	if !b.IsNegative() || !b.Abs().Equal(Dollars(3.5)) || !b.Neg().Equal(Dollars(3.5)) {
		t.Errorf("sign of %v is not handled", b)
	}
	if !a.GreaterThan(b) || a.LessThanOrEqual(b) {
		t.Errorf("%v and %v are not ordered", a, b)
	}
	if got := Dollars(1.239).Round(); !got.Equal(Dollars(1.24)) {
		t.Errorf("Round() = %v, want $1.24", got)
	}
	if Dollars(0).Currency() != "USD" || !Dollars(0).IsZero() {
		t.Errorf("Dollars(0) is not a zero USD amount")
	}
}

func TestPercent(t *testing.T) {
	p := Ratio(0.3636)
	if got := p.String(); got != "36.4%" {
		t.Errorf("String() = %q, want 36.4%%", got)
	}
	if got := p.Ratio(); !near(got, 0.3636, 1e-12) {
		t.Errorf("Ratio() = %v, want 0.3636", got)
	}
	if !p.Equal(36.36) || p.Equal(36.4) {
		t.Errorf("Equal() does not compare with a small precision")
	}
	testCases := map[Percent]string{
		9.42:   "+9.4%",
		-18.08: "-18.1%",
		0.01:   "-",
		-0.04:  "-",
	}
	for p, want := range testCases {
		if got := p.SignedString(); got != want {
			t.Errorf("Percent(%v).SignedString() = %q, want %q", float64(p), got, want)
		}
	}
}
