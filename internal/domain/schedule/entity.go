// Package schedule содержит доменную модель планировщика: записи дневного
// расписания и будильники/напоминания с защитой "не чаще раза в день".
package schedule

import (
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// Category classifies a schedule entry's activity block.
type Category string

const (
	CategoryStudy    Category = "study"
	CategoryHospital Category = "hospital"
	CategoryRevision Category = "revision"
	CategoryRest     Category = "rest"
)

// IsValid проверяет корректность категории.
func (c Category) IsValid() bool {
	switch c {
	case CategoryStudy, CategoryHospital, CategoryRevision, CategoryRest:
		return true
	default:
		return false
	}
}

// Entry is one fixed-time block of the daily schedule. The watcher is the
// only writer of LastNotifiedDate, and only ever sets it to "today" - that
// persisted guard is what makes notifications at-most-once per day.
type Entry struct {
	// ID - идентификатор записи.
	ID string

	// StartTime / EndTime - границы блока, HH:mm.
	StartTime shared.DayTime
	EndTime   shared.DayTime

	// Label - название блока.
	Label string

	// Category - тип активности.
	Category Category

	// LastNotifiedDate - день последнего уведомления по этой записи.
	LastNotifiedDate shared.CalendarDay
}

// Validate checks the entry's structural invariants.
func (e Entry) Validate() error {
	if e.Label == "" {
		return shared.NewDomainError("schedule", "Validate", shared.ErrEmptyValue, "entry label cannot be empty")
	}
	if !e.StartTime.IsValid() || !e.EndTime.IsValid() {
		return shared.ErrInvalidDayTime
	}
	if !e.Category.IsValid() {
		return shared.NewDomainError("schedule", "Validate", shared.ErrInvalidInput, "unknown entry category")
	}
	return nil
}

// Due reports whether the entry should fire at the given instant: the wall
// clock sits inside the start minute and today's notification has not been
// sent yet.
func (e Entry) Due(now time.Time) bool {
	return e.StartTime.Matches(now) && e.LastNotifiedDate != shared.DayOf(now)
}

// MarkNotified stamps the per-day guard.
func (e *Entry) MarkNotified(day shared.CalendarDay) {
	e.LastNotifiedDate = day
}

// ══════════════════════════════════════════════════════════════════════════════
// REMINDER
// ══════════════════════════════════════════════════════════════════════════════

// Reminder is a user alarm: either recurring on selected weekdays or firing
// once on a specific date - never both.
type Reminder struct {
	// ID - идентификатор напоминания.
	ID string

	// Label - текст напоминания.
	Label string

	// Time - время срабатывания, HH:mm.
	Time shared.DayTime

	// Active - включено ли напоминание.
	Active bool

	// RecurrenceDays - дни недели для повторяющихся напоминаний.
	// Пустой набор означает одноразовое напоминание.
	RecurrenceDays []time.Weekday

	// FireDate - дата одноразового срабатывания.
	FireDate shared.CalendarDay

	// LastTriggeredDate - день последнего срабатывания.
	LastTriggeredDate shared.CalendarDay
}

// Recurring reports whether the reminder repeats on weekdays.
func (r Reminder) Recurring() bool {
	return len(r.RecurrenceDays) > 0
}

// Validate checks the reminder's structural invariants, including the
// recurring/one-time mutual exclusion.
func (r Reminder) Validate() error {
	if r.Label == "" {
		return shared.NewDomainError("schedule", "Validate", shared.ErrEmptyValue, "reminder label cannot be empty")
	}
	if !r.Time.IsValid() {
		return shared.ErrInvalidDayTime
	}
	if r.Recurring() && !r.FireDate.IsZero() {
		return shared.ErrAmbiguousReminder
	}
	if !r.Recurring() && r.FireDate.IsZero() {
		return shared.NewDomainError("schedule", "Validate", shared.ErrInvalidInput, "one-time reminder needs a fire date")
	}
	return nil
}

// recursOn reports whether the weekday is in the recurrence set.
func (r Reminder) recursOn(wd time.Weekday) bool {
	for _, d := range r.RecurrenceDays {
		if d == wd {
			return true
		}
	}
	return false
}

// Due reports whether the reminder should fire at the given instant.
func (r Reminder) Due(now time.Time) bool {
	if !r.Active || !r.Time.Matches(now) {
		return false
	}
	today := shared.DayOf(now)
	if r.LastTriggeredDate == today {
		return false
	}
	if r.Recurring() {
		return r.recursOn(now.Weekday())
	}
	return r.FireDate == today
}

// Expired reports whether a one-time reminder's fire date has passed and the
// reminder should be considered for deactivation.
func (r Reminder) Expired(today shared.CalendarDay) bool {
	return !r.Recurring() && !r.FireDate.IsZero() && r.FireDate.Time().Before(today.Time())
}

// MarkTriggered stamps the per-day guard.
func (r *Reminder) MarkTriggered(day shared.CalendarDay) {
	r.LastTriggeredDate = day
}

// Deactivate switches the reminder off.
func (r *Reminder) Deactivate() {
	r.Active = false
}
