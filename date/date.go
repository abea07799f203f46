// Package date implements a calendar day with no time of day, as used for tax lot purchases.
package date

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Format is the format used to write dates: "2025/07/01".
const Format = "2006/01/02"

// readFormats are the permissive formats accepted when reading a date (single-digit month and
// day, dashes or slashes).
var readFormats = []string{"2006/1/2", "2006-1-2"}

// Date represents a date with day-level granularity. The zero value is not a valid day.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// AddYears returns the same day years later. February 29th becomes March 1st on non leap
// years.
func (d Date) AddYears(years int) Date { return New(d.y+years, d.m, d.d) }

// Sub returns the number of days from x to d.
func (d Date) Sub(x Date) int { return int(d.time().Sub(x.time()).Hours() / 24) }

// String format the date in its standard format.
func (d Date) String() string { return d.time().Format(Format) }

// Parse parses a Date from a string. It is lenient and accepts "2025/7/1" or "2025-07-01".
func Parse(str string) (Date, error) {
	var err error
	for _, f := range readFormats {
		var on time.Time
		if on, err = time.Parse(f, str); err == nil {
			return New(on.Date()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, "YYYY/MM/DD", err)
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	x, err := Parse(str)
	if err != nil {
		return err
	}
	*d = x
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	x, err := Parse(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = x
	return nil
}

func (d Date) MarshalYAML() (any, error) { return d.String(), nil }

// MarshalCSV implements gocsv.TypeMarshaller.
func (d Date) MarshalCSV() (string, error) { return d.String(), nil }

// check that a Date pointer is a valid marshall/unmarshaller type.
var (
	_ json.Marshaler   = (*Date)(nil)
	_ json.Unmarshaler = (*Date)(nil)
	_ yaml.Marshaler   = (*Date)(nil)
	_ yaml.Unmarshaler = (*Date)(nil)
)
