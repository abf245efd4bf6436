package view

import (
	"fmt"
	"time"

	"github.com/javiermolinar/planboard/internal/slot"
)

// Window is the visible span of the slot axis, in pixels.
type Window struct {
	Geometry slot.Geometry
	Offset   int // Scroll position
	Width    int // Visible pixels
}

// slots returns the first and last slot indexes the window touches.
func (w Window) slots() (first, last int, ok bool) {
	g := w.Geometry
	if w.Width <= 0 || g.SlotWidth <= 0 || g.TotalSlots <= 0 {
		return 0, 0, false
	}
	first = w.Offset / g.SlotWidth
	last = (w.Offset + w.Width - 1) / g.SlotWidth
	if last >= g.TotalSlots {
		last = g.TotalSlots - 1
	}
	return first, last, first <= last
}

// HeaderBands returns the three header lines for the window as plain text:
// ISO week with month, day names with dates, and the AM/PM half of each slot.
func HeaderBands(w Window) (weeks, days, periods string) {
	first, last, ok := w.slots()
	if !ok {
		blank := Fit("", w.Width)
		return blank, blank, blank
	}

	sw := w.Geometry.SlotWidth
	span := (last - first + 1) * sw
	weekBuf := blankBuf(span)
	dayBuf := blankBuf(span)
	periodBuf := blankBuf(span)

	for s := first; s <= last; s++ {
		cal := w.Geometry.Calendar(s)
		col := (s - first) * sw

		write(periodBuf, col+(sw-len(cal.Period))/2, string(cal.Period))

		if cal.Period == slot.AM || s == first {
			room := 2*sw - 1
			if cal.Period == slot.PM {
				room = sw - 1
			}
			write(dayBuf, col, clip(cal.DayName+" "+cal.Date.Format("02"), room))
		}
		if (cal.Period == slot.AM && cal.Date.Weekday() == time.Monday) || s == first {
			year, week := cal.Date.ISOWeek()
			write(weekBuf, col, fmt.Sprintf("W%02d %s %d", week, cal.Date.Format("Jan"), year))
		}
	}

	cut := func(buf []byte) string {
		from := w.Offset - first*sw
		to := min(from+w.Width, len(buf))
		return Fit(string(buf[from:to]), w.Width)
	}
	return cut(weekBuf), cut(dayBuf), cut(periodBuf)
}

func blankBuf(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = ' '
	}
	return buf
}

func clip(text string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(text) > n {
		return text[:n]
	}
	return text
}

// write copies ASCII text into buf at col, clipped to the buffer.
func write(buf []byte, col int, text string) {
	for i := 0; i < len(text); i++ {
		if j := col + i; j >= 0 && j < len(buf) {
			buf[j] = text[i]
		}
	}
}
