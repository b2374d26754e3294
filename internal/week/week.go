// Package week resolves the current week and day relative to a fixed epoch,
// and hides the parts of a week that haven't happened yet.
package week

import (
	"time"
)

const (
	// DaysPerWeek is the number of day slots in a week's series.
	DaysPerWeek = 7
	// LastDay is the day index of Sunday; a cutoff at LastDay shows the whole week.
	LastDay = DaysPerWeek - 1
)

// DayIndex returns the Monday-first index of t's weekday: Monday=0 ... Sunday=6.
func DayIndex(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return LastDay
	}
	return int(t.Weekday()) - 1
}

// MondayOf returns midnight of the Monday on or before t's calendar date, in t's location.
func MondayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-DayIndex(t), 0, 0, 0, 0, t.Location())
}

// Number returns the week number of t, where the week containing epoch is week 1.
// Dates before the epoch's week give numbers below 1.
func Number(epoch, t time.Time) int {
	days := civilDays(MondayOf(t)) - civilDays(MondayOf(epoch))
	return floorDiv(days, DaysPerWeek) + 1
}

// Start returns midnight of the Monday that begins week n.
func Start(epoch time.Time, n int) time.Time {
	monday := MondayOf(epoch)
	y, m, d := monday.Date()
	return time.Date(y, m, d+(n-1)*DaysPerWeek, 0, 0, 0, 0, monday.Location())
}

// civilDays counts calendar days since the Unix epoch, ignoring time of day and zone offsets.
func civilDays(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Clock tells the current week and day relative to Epoch.
type Clock struct {
	Epoch time.Time
	Now   func() time.Time // Defaults to time.Now.
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	if c.Epoch.IsZero() {
		return now()
	}
	return now().In(c.Epoch.Location())
}

// Now returns the current week number and day index.
func (c Clock) Now() (int, int) {
	now := c.now()
	return Number(c.Epoch, now), DayIndex(now)
}

// Begin takes a snapshot of the clock for one render pass.
func (c Clock) Begin() Pass {
	now := c.now()
	return Pass{
		At:   now,
		Week: Number(c.Epoch, now),
		Day:  DayIndex(now),
	}
}

// Pass is the clock as seen by a single render. Its values don't move while the render runs.
type Pass struct {
	At   time.Time
	Week int
	Day  int
}

// Cutoff returns the last visible day index for a week.
func (p Pass) Cutoff(isLatest bool) int {
	return ResolveCutoff(isLatest, p.Day)
}

// ResolveCutoff returns LastDay for historical weeks and today's index for the latest known week.
func ResolveCutoff(isLatest bool, today int) int {
	if !isLatest {
		return LastDay
	}
	return Clamp(today)
}

// Clamp forces a day index into [0, LastDay].
func Clamp(day int) int {
	switch {
	case day < 0:
		return 0
	case day > LastDay:
		return LastDay
	}
	return day
}

// Truncate returns a copy of series with every value after cutoff removed.
// Gaps at or before the cutoff are left alone.
func Truncate(series []*float64, cutoff int) []*float64 {
	if series == nil {
		return nil
	}
	cutoff = Clamp(cutoff)
	out := make([]*float64, len(series))
	for i, v := range series {
		if cutoff < LastDay && i > cutoff {
			continue
		}
		out[i] = v
	}
	return out
}

// GateMarker hides a week's end-of-week measure until the cutoff reaches Sunday.
func GateMarker(marker *float64, cutoff int) *float64 {
	if Clamp(cutoff) < LastDay {
		return nil
	}
	return marker
}

// Latest returns the highest week number, or false when there are none.
func Latest(numbers []int) (int, bool) {
	if len(numbers) == 0 {
		return 0, false
	}
	latest := numbers[0]
	for _, n := range numbers[1:] {
		latest = max(latest, n)
	}
	return latest, true
}
