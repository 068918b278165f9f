package schedule

import (
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATCHERS
// Один проход по коллекции на каждый тик опроса. Сопоставление идёт с
// точностью до минуты; защита по дню делает повторные тики идемпотентными.
// ══════════════════════════════════════════════════════════════════════════════

// MatchEntries returns the due entries and stamps their per-day guard in
// place. For any (entry, day) pair at most one match is ever produced,
// regardless of poll frequency or restarts, because the guard travels with
// the entry.
func MatchEntries(entries []Entry, now time.Time) []Entry {
	today := shared.DayOf(now)

	var due []Entry
	for i := range entries {
		if !entries[i].Due(now) {
			continue
		}
		entries[i].MarkNotified(today)
		due = append(due, entries[i])
	}
	return due
}

// MatchReminders returns the due reminders and stamps their per-day guard in
// place. Recurring and one-time reminders share the same guard semantics.
func MatchReminders(reminders []Reminder, now time.Time) []Reminder {
	today := shared.DayOf(now)

	var due []Reminder
	for i := range reminders {
		if !reminders[i].Due(now) {
			continue
		}
		reminders[i].MarkTriggered(today)
		due = append(due, reminders[i])
	}
	return due
}

// SweepExpired deactivates one-time reminders whose fire date has passed and
// returns the ones it touched. Policy cleanup, not a hard invariant.
func SweepExpired(reminders []Reminder, today shared.CalendarDay) []Reminder {
	var swept []Reminder
	for i := range reminders {
		if !reminders[i].Active || !reminders[i].Expired(today) {
			continue
		}
		reminders[i].Deactivate()
		swept = append(swept, reminders[i])
	}
	return swept
}
