// Package jobs contains implementations of scheduled jobs for Study Hub.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shyrus-os/study-hub/internal/domain/notification"
	"github.com/shyrus-os/study-hub/internal/domain/schedule"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
	"github.com/shyrus-os/study-hub/pkg/clock"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE WATCH JOB
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleWatchJob polls the timetable and raises a notification for every
// block whose start time matches the current minute. The per-day guard is
// persisted with the entry, so a block alerts at most once per day even
// across process restarts.
type ScheduleWatchJob struct {
	entryRepo      schedule.EntryRepository
	notifRepo      notification.Repository
	eventPublisher shared.EventPublisher
	clk            clock.Clock
	logger         *slog.Logger
}

// NewScheduleWatchJob creates the job with its dependencies.
func NewScheduleWatchJob(
	entryRepo schedule.EntryRepository,
	notifRepo notification.Repository,
	eventPublisher shared.EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) *ScheduleWatchJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleWatchJob{
		entryRepo:      entryRepo,
		notifRepo:      notifRepo,
		eventPublisher: eventPublisher,
		clk:            clk,
		logger:         logger,
	}
}

// Name returns the unique name of the job.
func (j *ScheduleWatchJob) Name() string {
	return "schedule_watch"
}

// Description returns a human-readable description of the job.
func (j *ScheduleWatchJob) Description() string {
	return "Alerts timetable blocks whose start time matches the current minute"
}

// Run executes one poll tick.
func (j *ScheduleWatchJob) Run(ctx context.Context) error {
	now := j.clk.Now()

	entries, err := j.entryRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list schedule entries: %w", err)
	}

	due := schedule.MatchEntries(entries, now)
	if len(due) == 0 {
		return nil
	}

	var firstErr error
	for _, entry := range due {
		// Persist the guard first. Losing a notification is better
		// than alerting the same block twice.
		if err := j.entryRepo.Save(ctx, entry); err != nil {
			j.logger.Error("failed to persist notification guard",
				"entry_id", entry.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		n, err := notification.ForScheduleEntry(entry.Label, string(entry.Category), now)
		if err != nil {
			j.logger.Error("failed to build schedule notification",
				"entry_id", entry.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if err := j.notifRepo.Append(ctx, n); err != nil {
			j.logger.Error("failed to store schedule notification",
				"entry_id", entry.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if j.eventPublisher != nil {
			event := shared.NewScheduleDueEvent(entry.ID, entry.Label, string(entry.Category), shared.DayOf(now))
			if err := j.eventPublisher.Publish(event); err != nil {
				j.logger.Warn("failed to publish schedule due event",
					"entry_id", entry.ID,
					"error", err,
				)
			}
		}

		j.logger.Info("schedule block alerted",
			"entry_id", entry.ID,
			"label", entry.Label,
			"start_time", entry.StartTime.String(),
		)
	}

	return firstErr
}
