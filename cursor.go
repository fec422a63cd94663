package ighist

import "time"

// Day is the finest reconstruction grain.
const Day = 24 * time.Hour

// Cursor walks contiguous half-open windows [Left, Right) of a fixed grain
// from a start date to an end date.
//
// The start is truncated back to the preceding Sunday midnight UTC so that
// runs launched on different weekdays produce snapshots aligned on the same
// boundaries and stay comparable across refreshes.
type Cursor struct {
	grain   time.Duration
	end     time.Time
	cur     time.Time
	started bool
}

func NewCursor(start, end time.Time, grain time.Duration) *Cursor {
	return &Cursor{grain: grain, end: end.UTC(), cur: truncateToSunday(start)}
}

// truncateToSunday returns midnight UTC of the Sunday at or before t.
func truncateToSunday(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Next advances the cursor by one grain. It returns false once the window
// left edge has moved past the end date; the end date itself still yields
// a window, so the final snapshot covers it.
func (c *Cursor) Next() bool {
	if !c.started {
		c.started = true
		return true
	}
	next := c.cur.Add(c.grain)
	if next.After(c.end) {
		return false
	}
	c.cur = next
	return true
}

// Left returns the inclusive left edge of the current window.
func (c *Cursor) Left() time.Time { return c.cur }

// Right returns the exclusive right edge of the current window.
func (c *Cursor) Right() time.Time { return c.cur.Add(c.grain) }
