package report_test

import (
	"testing"
	"time"

	"github.com/godilite/washroom-dashboard/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateValue(t *testing.T) {
	cases := []struct {
		name     string
		date     report.Date
		g        report.Granularity
		expected string
	}{
		{"day", report.Date{Year: 2024, Month: 3, Day: 5}, report.Day, "2024-03-05"},
		{"month", report.Date{Year: 2024, Month: 3, Day: 5}, report.Month, "2024-03"},
		{"january pads", report.Date{Year: 2024, Month: 1, Day: 1}, report.Month, "2024-01"},
		{"december", report.Date{Year: 2023, Month: 12, Day: 31}, report.Day, "2023-12-31"},
		{"leap day", report.Date{Year: 2024, Month: 2, Day: 29}, report.Day, "2024-02-29"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := report.FormatDateValue(tc.date, tc.g)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFormatDateValue_IgnoresClockAndZone(t *testing.T) {
	kl := time.FixedZone("MYT", 8*3600)

	// 00:30 in Kuala Lumpur is still the previous day in UTC.
	local := time.Date(2024, 3, 5, 0, 30, 0, 0, kl)
	got, err := report.FormatDateValue(report.DateOf(local), report.Day)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", got)

	late := time.Date(2024, 3, 5, 23, 59, 0, 0, time.FixedZone("UTC-10", -10*3600))
	got, err = report.FormatDateValue(report.DateOf(late), report.Day)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", got)
}

func TestFormatDateValue_InvalidGranularity(t *testing.T) {
	_, err := report.FormatDateValue(report.Date{Year: 2024, Month: 1, Day: 1}, "week")
	assert.ErrorIs(t, err, report.ErrInvalidGranularity)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, report.DaysInMonth(2024, time.February))
	assert.Equal(t, 28, report.DaysInMonth(2023, time.February))
	assert.Equal(t, 30, report.DaysInMonth(2024, time.April))
	assert.Equal(t, 31, report.DaysInMonth(2024, time.December))
	assert.Equal(t, 28, report.DaysInMonth(1900, time.February))
	assert.Equal(t, 29, report.DaysInMonth(2000, time.February))
}

func TestParseDate(t *testing.T) {
	d, err := report.ParseDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, report.Date{Year: 2024, Month: time.March, Day: 5}, d)

	d, err = report.ParseDate("2024-03")
	require.NoError(t, err)
	assert.Equal(t, report.Date{Year: 2024, Month: time.March, Day: 1}, d)

	_, err = report.ParseDate("05/03/2024")
	assert.ErrorIs(t, err, report.ErrInvalidDate)
}

func TestPeriodEnd(t *testing.T) {
	d := report.Date{Year: 2024, Month: time.December, Day: 31}
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), report.PeriodEnd(d, report.Day))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), report.PeriodEnd(d, report.Month))

	d = report.Date{Year: 2024, Month: time.February, Day: 10}
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), report.PeriodEnd(d, report.Month))
}
