package report

import (
	"errors"
	"fmt"
	"time"
)

// Granularity selects hourly buckets for a day or daily buckets for a month.
type Granularity string

const (
	Day   Granularity = "day"
	Month Granularity = "month"
)

var (
	ErrInvalidGranularity = errors.New("invalid date granularity")
	ErrInvalidDate        = errors.New("invalid date")
)

// ParseGranularity validates the wire name of a granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Day, Month:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
}

// Date is a calendar date as shown to the viewer, independent of zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf takes the calendar fields of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate reads YYYY-MM-DD, or YYYY-MM (first of the month).
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// UTCMidnight rebuilds the instant at UTC midnight from the calendar fields.
// Out-of-range fields normalise the way time.Date does.
func (d Date) UTCMidnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// FormatDateValue produces the dateValue query key the backend expects:
// YYYY-MM-DD for a day, YYYY-MM for a month.
func FormatDateValue(d Date, g Granularity) (string, error) {
	u := d.UTCMidnight()
	switch g {
	case Day:
		return u.Format("2006-01-02"), nil
	case Month:
		return fmt.Sprintf("%04d-%02d", u.Year(), int(u.Month())), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, g)
}

// DaysInMonth returns the number of days in the given month, leap years
// included.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PeriodEnd returns the exclusive UTC end of the period d falls in.
func PeriodEnd(d Date, g Granularity) time.Time {
	u := d.UTCMidnight()
	if g == Month {
		return time.Date(u.Year(), u.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	}
	return u.AddDate(0, 0, 1)
}
