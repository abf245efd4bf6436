// Package slot maps discrete half-day slot indexes to pixel offsets and calendar dates.
package slot

import (
	"fmt"
	"math"
	"time"
)

// Period is the half of the day a slot covers.
type Period string

const (
	AM Period = "AM"
	PM Period = "PM"
)

// Defaults used when a Geometry field is left at zero.
const (
	DefaultSlotWidth    = 4
	DefaultTotalSlots   = 60
	DefaultDayStartHour = 8
	DefaultPMStartHour  = 15
)

// Geometry describes the slot axis. Two consecutive slots form one calendar day:
// even indexes are mornings, odd indexes are afternoons.
type Geometry struct {
	SlotWidth    int       // Pixels (terminal cells) per slot
	TotalSlots   int       // Length of the axis
	Anchor       time.Time // Date of slot 0
	DayStartHour int       // Hour an AM slot starts at
	PMStartHour  int       // Hour a PM slot starts at
}

// Calendar is the calendar position of a slot.
type Calendar struct {
	Slot    int
	Date    time.Time // Start of the half day, in the anchor's location
	Period  Period
	DayName string // Short weekday name, e.g. "Mon"
}

// Label returns "DD/MM AM" style text.
func (c Calendar) Label() string {
	return fmt.Sprintf("%s %s", c.Date.Format("02/01"), c.Period)
}

// New returns a Geometry with defaults applied for zero fields.
func New(slotWidth, totalSlots int, anchor time.Time) Geometry {
	g := Geometry{
		SlotWidth:  slotWidth,
		TotalSlots: totalSlots,
		Anchor:     anchor,
	}
	return g.withDefaults()
}

func (g Geometry) withDefaults() Geometry {
	if g.SlotWidth <= 0 {
		g.SlotWidth = DefaultSlotWidth
	}
	if g.TotalSlots <= 0 {
		g.TotalSlots = DefaultTotalSlots
	}
	// Midnight is a valid morning start, so the hours count as unset only
	// when the afternoon start is missing too.
	if g.PMStartHour == 0 {
		if g.DayStartHour == 0 {
			g.DayStartHour = DefaultDayStartHour
		}
		g.PMStartHour = DefaultPMStartHour
	}
	if g.Anchor.IsZero() {
		g.Anchor = truncateToDay(time.Now())
	} else {
		g.Anchor = truncateToDay(g.Anchor)
	}
	return g
}

// Width returns the configured pixel width of one slot.
func (g Geometry) Width() int {
	return g.SlotWidth
}

// ToPixels converts a slot index (or a slot count) to pixels.
func (g Geometry) ToPixels(slot int) int {
	return slot * g.SlotWidth
}

// FromPixels snaps a pixel offset to the nearest slot index.
func (g Geometry) FromPixels(px int) int {
	if g.SlotWidth <= 0 {
		return 0
	}
	return int(math.Round(float64(px) / float64(g.SlotWidth)))
}

// Calendar returns the date and period of a slot index.
func (g Geometry) Calendar(slot int) Calendar {
	dayOffset := floorDiv(slot, 2)
	period := AM
	hour := g.DayStartHour
	if slot%2 != 0 {
		period = PM
		hour = g.PMStartHour
	}

	day := g.Anchor.AddDate(0, 0, dayOffset)
	date := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())

	return Calendar{
		Slot:    slot,
		Date:    date,
		Period:  period,
		DayName: date.Format("Mon"),
	}
}

// SlotOf returns the slot index a point in time falls in.
// Times at or after PMStartHour map to the afternoon slot of their day.
func (g Geometry) SlotOf(t time.Time) int {
	day := truncateToDay(t.In(g.Anchor.Location()))
	days := int(math.Round(day.Sub(g.Anchor).Hours() / 24))
	s := days * 2
	if t.Hour() >= g.PMStartHour {
		s++
	}
	return s
}

// Span returns the calendar positions of the first and last slot a task occupies.
func (g Geometry) Span(start, duration int) (first, last Calendar) {
	if duration < 1 {
		duration = 1
	}
	return g.Calendar(start), g.Calendar(start + duration - 1)
}

// MaxDuration returns how many slots fit between start and the end of the axis.
func (g Geometry) MaxDuration(start int) int {
	return g.TotalSlots - start
}

// Clamp limits duration so the task ends on or before the last slot.
// The result is never below 1.
func (g Geometry) Clamp(start, duration int) int {
	if maxDur := g.MaxDuration(start); duration > maxDur {
		duration = maxDur
	}
	if duration < 1 {
		duration = 1
	}
	return duration
}

// Contains reports whether [start, start+duration) lies on the axis.
func (g Geometry) Contains(start, duration int) bool {
	return start >= 0 && duration >= 1 && start+duration <= g.TotalSlots
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
