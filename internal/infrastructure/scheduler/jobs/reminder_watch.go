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
// REMINDER WATCH JOB
// ══════════════════════════════════════════════════════════════════════════════

// ReminderWatchJob polls one-time and recurring reminders and raises an alarm
// notification for every reminder due in the current minute. Expired one-time
// reminders are deactivated during the same pass.
type ReminderWatchJob struct {
	reminderRepo   schedule.ReminderRepository
	notifRepo      notification.Repository
	eventPublisher shared.EventPublisher
	clk            clock.Clock
	logger         *slog.Logger
}

// NewReminderWatchJob creates the job with its dependencies.
func NewReminderWatchJob(
	reminderRepo schedule.ReminderRepository,
	notifRepo notification.Repository,
	eventPublisher shared.EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) *ReminderWatchJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderWatchJob{
		reminderRepo:   reminderRepo,
		notifRepo:      notifRepo,
		eventPublisher: eventPublisher,
		clk:            clk,
		logger:         logger,
	}
}

// Name returns the unique name of the job.
func (j *ReminderWatchJob) Name() string {
	return "reminder_watch"
}

// Description returns a human-readable description of the job.
func (j *ReminderWatchJob) Description() string {
	return "Fires one-time and recurring reminders due in the current minute"
}

// Run executes one poll tick.
func (j *ReminderWatchJob) Run(ctx context.Context) error {
	now := j.clk.Now()
	today := shared.DayOf(now)

	reminders, err := j.reminderRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list reminders: %w", err)
	}

	var firstErr error

	due := schedule.MatchReminders(reminders, now)
	for _, r := range due {
		if err := j.reminderRepo.Save(ctx, r); err != nil {
			j.logger.Error("failed to persist reminder guard",
				"reminder_id", r.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		n, err := notification.ForReminder(r.Label, now)
		if err != nil {
			j.logger.Error("failed to build reminder notification",
				"reminder_id", r.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if err := j.notifRepo.Append(ctx, n); err != nil {
			j.logger.Error("failed to store reminder notification",
				"reminder_id", r.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if j.eventPublisher != nil {
			event := shared.NewReminderDueEvent(r.ID, r.Label, !r.Recurring(), today)
			if err := j.eventPublisher.Publish(event); err != nil {
				j.logger.Warn("failed to publish reminder due event",
					"reminder_id", r.ID,
					"error", err,
				)
			}
		}

		j.logger.Info("reminder fired",
			"reminder_id", r.ID,
			"label", r.Label,
			"recurring", r.Recurring(),
		)
	}

	// One-time reminders whose date has passed will never fire again.
	swept := schedule.SweepExpired(reminders, today)
	for _, r := range swept {
		if err := j.reminderRepo.Save(ctx, r); err != nil {
			j.logger.Error("failed to deactivate expired reminder",
				"reminder_id", r.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
