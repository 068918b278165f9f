package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shyrus-os/study-hub/internal/domain/notification"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
	"github.com/shyrus-os/study-hub/internal/domain/subject"
	"github.com/shyrus-os/study-hub/pkg/clock"
)

// ══════════════════════════════════════════════════════════════════════════════
// RETENTION SCAN JOB
// ══════════════════════════════════════════════════════════════════════════════

// RetentionScanJob sweeps all subjects and raises a decay warning for every
// subject whose estimated retention has fallen below the configured floor.
// A per-subject, per-day guard keeps the hourly sweep from nagging.
type RetentionScanJob struct {
	subjectRepo    subject.Repository
	notifRepo      notification.Repository
	eventPublisher shared.EventPublisher
	clk            clock.Clock
	logger         *slog.Logger

	warnBelow int
}

// NewRetentionScanJob creates the job with its dependencies.
func NewRetentionScanJob(
	subjectRepo subject.Repository,
	notifRepo notification.Repository,
	eventPublisher shared.EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
	warnBelow int,
) *RetentionScanJob {
	if logger == nil {
		logger = slog.Default()
	}
	if warnBelow <= 0 || warnBelow > 100 {
		warnBelow = subject.CriticalThreshold
	}
	return &RetentionScanJob{
		subjectRepo:    subjectRepo,
		notifRepo:      notifRepo,
		eventPublisher: eventPublisher,
		clk:            clk,
		logger:         logger,
		warnBelow:      warnBelow,
	}
}

// Name returns the unique name of the job.
func (j *RetentionScanJob) Name() string {
	return "retention_scan"
}

// Description returns a human-readable description of the job.
func (j *RetentionScanJob) Description() string {
	return "Warns about subjects whose estimated retention has decayed below the floor"
}

// Run executes one sweep.
func (j *RetentionScanJob) Run(ctx context.Context) error {
	now := j.clk.Now()
	today := shared.DayOf(now)

	subjects, err := j.subjectRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list subjects: %w", err)
	}

	var firstErr error
	for _, s := range subjects {
		// Subjects never studied have nothing to decay.
		if s.Unstarted() || s.LastStudiedAt.IsZero() {
			continue
		}

		retention := s.RetentionAt(now)
		if retention >= j.warnBelow {
			continue
		}

		warnedOn, err := j.subjectRepo.LastWarnedOn(ctx, s.ID)
		if err != nil {
			j.logger.Error("failed to read warning guard",
				"subject_id", s.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if warnedOn == today {
			continue
		}

		n, err := notification.ForRetentionWarning(s.Name, retention, now)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if err := j.notifRepo.Append(ctx, n); err != nil {
			j.logger.Error("failed to store decay warning",
				"subject_id", s.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if err := j.subjectRepo.MarkWarned(ctx, s.ID, today); err != nil {
			j.logger.Error("failed to persist warning guard",
				"subject_id", s.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
		}

		if j.eventPublisher != nil {
			event := shared.NewRetentionCriticalEvent(s.ID, s.Name, retention, subject.DaysIdle(s.LastStudiedAt, now))
			if err := j.eventPublisher.Publish(event); err != nil {
				j.logger.Warn("failed to publish retention event",
					"subject_id", s.ID,
					"error", err,
				)
			}
		}

		j.logger.Info("retention warning raised",
			"subject", s.Name,
			"retention", retention,
		)
	}

	return firstErr
}
