package shared

import (
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// CALENDAR DAY
// All streak and notification-guard comparisons happen at calendar-day
// granularity; time-of-day is deliberately discarded.
// ══════════════════════════════════════════════════════════════════════════════

// CalendarDay is a calendar date in "YYYY-MM-DD" form. The zero value ("")
// means "no date recorded".
type CalendarDay string

// calendarDayLayout is the wire format for CalendarDay.
const calendarDayLayout = "2006-01-02"

// DayOf truncates a timestamp to its calendar day.
func DayOf(t time.Time) CalendarDay {
	return CalendarDay(t.Format(calendarDayLayout))
}

// IsZero reports whether no date has been recorded.
func (d CalendarDay) IsZero() bool {
	return d == ""
}

// IsValid reports whether the value parses as YYYY-MM-DD.
func (d CalendarDay) IsValid() bool {
	if d.IsZero() {
		return false
	}
	_, err := time.Parse(calendarDayLayout, string(d))
	return err == nil
}

// Time returns the day as a timestamp at midnight UTC.
// Returns the zero time for the zero value or malformed input.
func (d CalendarDay) Time() time.Time {
	t, err := time.Parse(calendarDayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day shifted by n calendar days.
func (d CalendarDay) AddDays(n int) CalendarDay {
	t := d.Time()
	if t.IsZero() {
		return ""
	}
	return DayOf(t.AddDate(0, 0, n))
}

// String returns the string representation.
func (d CalendarDay) String() string {
	return string(d)
}

// DaySet is a set of calendar days, e.g. the duty-date calendar.
type DaySet map[CalendarDay]struct{}

// NewDaySet builds a set from a list of days.
func NewDaySet(days ...CalendarDay) DaySet {
	set := make(DaySet, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}

// Contains reports whether the day is in the set.
func (s DaySet) Contains(d CalendarDay) bool {
	_, ok := s[d]
	return ok
}

// Add inserts a day into the set.
func (s DaySet) Add(d CalendarDay) {
	s[d] = struct{}{}
}

// Remove deletes a day from the set.
func (s DaySet) Remove(d CalendarDay) {
	delete(s, d)
}

// Days returns the members as a slice, unordered.
func (s DaySet) Days() []CalendarDay {
	out := make([]CalendarDay, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// DAY TIME
// Schedule entries and reminders match at minute granularity.
// ══════════════════════════════════════════════════════════════════════════════

// DayTime is a wall-clock time of day in "HH:mm" form.
type DayTime string

// dayTimeLayout is the wire format for DayTime.
const dayTimeLayout = "15:04"

// MinuteOf truncates a timestamp to its wall-clock minute.
func MinuteOf(t time.Time) DayTime {
	return DayTime(t.Format(dayTimeLayout))
}

// IsValid reports whether the value parses as HH:mm.
func (dt DayTime) IsValid() bool {
	_, err := time.Parse(dayTimeLayout, string(dt))
	return err == nil
}

// Matches reports whether the timestamp falls inside this wall-clock minute.
func (dt DayTime) Matches(t time.Time) bool {
	return MinuteOf(t) == dt
}

// String returns the string representation.
func (dt DayTime) String() string {
	return string(dt)
}
