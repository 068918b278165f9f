package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/notification"
	"github.com/shyrus-os/study-hub/internal/domain/profile"
	"github.com/shyrus-os/study-hub/internal/domain/subject"
	"github.com/shyrus-os/study-hub/internal/infrastructure/external/mentor"
	"github.com/shyrus-os/study-hub/pkg/clock"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY BRIEFING JOB
// ══════════════════════════════════════════════════════════════════════════════

// BriefingComposer produces the morning status report text.
// Satisfied by the mentor client; its fallback path keeps this job
// working offline.
type BriefingComposer interface {
	DailyBriefing(ctx context.Context, in mentor.BriefingInput) (string, error)
}

// BriefingCache stores the composed briefing until the end of the day.
// A cached briefing doubles as the delivery guard: while one is present
// the job skips, so a worker restart does not post a second briefing.
// Implemented by the Redis progress cache; nil disables the guard.
type BriefingCache interface {
	GetBriefing(ctx context.Context) (string, error)
	SetBriefing(ctx context.Context, text string, ttl time.Duration) error
}

// DailyBriefingJob composes one mentor briefing per day and drops it into
// the notification feed.
type DailyBriefingJob struct {
	profileRepo profile.Repository
	subjectRepo subject.Repository
	notifRepo   notification.Repository
	composer    BriefingComposer
	cache       BriefingCache
	clk         clock.Clock
	logger      *slog.Logger
}

// NewDailyBriefingJob creates the job with its dependencies.
func NewDailyBriefingJob(
	profileRepo profile.Repository,
	subjectRepo subject.Repository,
	notifRepo notification.Repository,
	composer BriefingComposer,
	cache BriefingCache,
	clk clock.Clock,
	logger *slog.Logger,
) *DailyBriefingJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &DailyBriefingJob{
		profileRepo: profileRepo,
		subjectRepo: subjectRepo,
		notifRepo:   notifRepo,
		composer:    composer,
		cache:       cache,
		clk:         clk,
		logger:      logger,
	}
}

// Name returns the unique name of the job.
func (j *DailyBriefingJob) Name() string {
	return "daily_briefing"
}

// Description returns a human-readable description of the job.
func (j *DailyBriefingJob) Description() string {
	return "Composes the mentor's morning briefing from the current study state"
}

// Run executes one briefing.
func (j *DailyBriefingJob) Run(ctx context.Context) error {
	now := j.clk.Now()

	if j.cache != nil {
		if _, err := j.cache.GetBriefing(ctx); err == nil {
			j.logger.Info("briefing already delivered today, skipping")
			return nil
		}
	}

	p, err := j.profileRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	subjects, err := j.subjectRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list subjects: %w", err)
	}

	in := mentor.BriefingInput{
		Level:  p.Level,
		Streak: p.Streak,
	}
	for _, s := range subjects {
		in.Subjects = append(in.Subjects, mentor.SubjectStatus{
			Name:      s.Name,
			Retention: s.RetentionAt(now),
			Coverage:  s.Coverage(),
			DaysIdle:  subject.DaysIdle(s.LastStudiedAt, now),
		})
	}

	text, err := j.composer.DailyBriefing(ctx, in)
	if err != nil {
		return fmt.Errorf("compose briefing: %w", err)
	}

	n, err := notification.New(notification.CategoryGeneral, text, now)
	if err != nil {
		return fmt.Errorf("build briefing notification: %w", err)
	}
	if err := j.notifRepo.Append(ctx, n); err != nil {
		return fmt.Errorf("store briefing notification: %w", err)
	}

	if j.cache != nil {
		// The guard expires at local midnight so tomorrow's run composes anew.
		ttl := clock.StartOfDay(now).AddDate(0, 0, 1).Sub(now)
		if err := j.cache.SetBriefing(ctx, text, ttl); err != nil {
			j.logger.Warn("failed to cache briefing", "error", err)
		}
	}

	j.logger.Info("daily briefing delivered", "subjects", len(subjects))
	return nil
}
