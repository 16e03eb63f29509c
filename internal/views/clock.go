package views

import (
	"time"

	"github.com/godilite/washroom-dashboard/internal/report"
)

// ClockLayout matches the en-US locale string shown in the page header.
const ClockLayout = "1/2/2006, 3:04:05 PM"

// DefaultZone is the display zone of the washrooms.
const DefaultZone = "Asia/Kuala_Lumpur"

// Clock reads wall time in the display zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewClockAt returns a clock whose time source is now. Used by tests.
func NewClockAt(loc *time.Location, now func() time.Time) *Clock {
	c := NewClock(loc)
	if now != nil {
		c.now = now
	}
	return c
}

func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

func (c *Clock) String() string { return c.Now().Format(ClockLayout) }

// Today is the current calendar date in the display zone.
func (c *Clock) Today() report.Date { return report.DateOf(c.Now()) }

// StartOfToday is midnight of Today, expressed in UTC calendar terms so it
// compares against report.PeriodEnd.
func (c *Clock) StartOfToday() time.Time { return c.Today().UTCMidnight() }

func (c *Clock) Location() *time.Location { return c.loc }
