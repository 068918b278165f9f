package schedule

import (
	"context"
)

// EntryRepository defines persistence operations for schedule entries.
type EntryRepository interface {
	// List returns all schedule entries.
	List(ctx context.Context) ([]Entry, error)

	// Save inserts or updates an entry.
	Save(ctx context.Context, e Entry) error

	// Delete removes an entry.
	Delete(ctx context.Context, id string) error
}

// ReminderRepository defines persistence operations for reminders.
type ReminderRepository interface {
	// List returns all reminders.
	List(ctx context.Context) ([]Reminder, error)

	// Save inserts or updates a reminder.
	Save(ctx context.Context, r Reminder) error

	// Delete removes a reminder.
	Delete(ctx context.Context, id string) error
}
