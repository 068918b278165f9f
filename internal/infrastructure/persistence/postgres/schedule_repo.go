package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shyrus-os/study-hub/internal/domain/schedule"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE ENTRY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleEntryRepository implements schedule.EntryRepository for PostgreSQL.
type ScheduleEntryRepository struct {
	conn *Connection
}

// NewScheduleEntryRepository creates a new ScheduleEntryRepository.
func NewScheduleEntryRepository(conn *Connection) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{conn: conn}
}

// List returns all schedule entries ordered by start time.
func (r *ScheduleEntryRepository) List(ctx context.Context) ([]schedule.Entry, error) {
	query := `
		SELECT id, start_time, end_time, label, category, last_notified_date
		FROM schedule_entries
		ORDER BY start_time, label
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []schedule.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Save inserts or updates an entry. The watcher calls this to persist the
// per-day notification guard, so the write path has to be cheap.
func (r *ScheduleEntryRepository) Save(ctx context.Context, e schedule.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO schedule_entries (
			id, start_time, end_time, label, category, last_notified_date, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			label = EXCLUDED.label,
			category = EXCLUDED.category,
			last_notified_date = EXCLUDED.last_notified_date,
			updated_at = NOW()
	`

	_, err := r.conn.Exec(ctx, query,
		e.ID,
		string(e.StartTime),
		string(e.EndTime),
		e.Label,
		string(e.Category),
		calendarDayParam(e.LastNotifiedDate),
	)
	if err != nil {
		return fmt.Errorf("failed to save schedule entry: %w", err)
	}

	return nil
}

// Delete removes an entry.
func (r *ScheduleEntryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrEntryNotFound
	}
	return nil
}

// scanEntry scans a schedule entry row.
func scanEntry(row pgx.Row) (schedule.Entry, error) {
	var (
		e                schedule.Entry
		startTime        string
		endTime          string
		category         string
		lastNotifiedDate *time.Time
	)

	err := row.Scan(
		&e.ID,
		&startTime,
		&endTime,
		&e.Label,
		&category,
		&lastNotifiedDate,
	)
	if err != nil {
		return schedule.Entry{}, err
	}

	e.StartTime = shared.DayTime(startTime)
	e.EndTime = shared.DayTime(endTime)
	e.Category = schedule.Category(category)
	if lastNotifiedDate != nil {
		e.LastNotifiedDate = shared.DayOf(*lastNotifiedDate)
	}

	return e, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REMINDER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ReminderRepository implements schedule.ReminderRepository for PostgreSQL.
// Recurrence weekdays are stored as a JSONB array of integers (0 = Sunday).
type ReminderRepository struct {
	conn *Connection
}

// NewReminderRepository creates a new ReminderRepository.
func NewReminderRepository(conn *Connection) *ReminderRepository {
	return &ReminderRepository{conn: conn}
}

// List returns all reminders ordered by fire time.
func (r *ReminderRepository) List(ctx context.Context) ([]schedule.Reminder, error) {
	query := `
		SELECT id, label, fire_time, active, recurrence_days, fire_date, last_triggered_date
		FROM reminders
		ORDER BY fire_time, label
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []schedule.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}

// Save inserts or updates a reminder.
func (r *ReminderRepository) Save(ctx context.Context, rem schedule.Reminder) error {
	if err := rem.Validate(); err != nil {
		return err
	}

	days := make([]int, 0, len(rem.RecurrenceDays))
	for _, wd := range rem.RecurrenceDays {
		days = append(days, int(wd))
	}
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("failed to marshal recurrence days: %w", err)
	}

	query := `
		INSERT INTO reminders (
			id, label, fire_time, active, recurrence_days,
			fire_date, last_triggered_date, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			fire_time = EXCLUDED.fire_time,
			active = EXCLUDED.active,
			recurrence_days = EXCLUDED.recurrence_days,
			fire_date = EXCLUDED.fire_date,
			last_triggered_date = EXCLUDED.last_triggered_date,
			updated_at = NOW()
	`

	_, err = r.conn.Exec(ctx, query,
		rem.ID,
		rem.Label,
		string(rem.Time),
		rem.Active,
		daysJSON,
		calendarDayParam(rem.FireDate),
		calendarDayParam(rem.LastTriggeredDate),
	)
	if err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}

	return nil
}

// Delete removes a reminder.
func (r *ReminderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrReminderNotFound
	}
	return nil
}

// scanReminder scans a reminder row.
func scanReminder(row pgx.Row) (schedule.Reminder, error) {
	var (
		rem           schedule.Reminder
		fireTime      string
		daysJSON      []byte
		fireDate      *time.Time
		lastTriggered *time.Time
	)

	err := row.Scan(
		&rem.ID,
		&rem.Label,
		&fireTime,
		&rem.Active,
		&daysJSON,
		&fireDate,
		&lastTriggered,
	)
	if err != nil {
		return schedule.Reminder{}, err
	}

	rem.Time = shared.DayTime(fireTime)

	if len(daysJSON) > 0 {
		var days []int
		if err := json.Unmarshal(daysJSON, &days); err != nil {
			return schedule.Reminder{}, fmt.Errorf("failed to unmarshal recurrence days: %w", err)
		}
		for _, d := range days {
			rem.RecurrenceDays = append(rem.RecurrenceDays, time.Weekday(d))
		}
	}

	if fireDate != nil {
		rem.FireDate = shared.DayOf(*fireDate)
	}
	if lastTriggered != nil {
		rem.LastTriggeredDate = shared.DayOf(*lastTriggered)
	}

	return rem, nil
}
