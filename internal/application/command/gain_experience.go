// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/profile"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
	"github.com/shyrus-os/study-hub/pkg/clock"
)

// ══════════════════════════════════════════════════════════════════════════════
// GAIN EXPERIENCE COMMAND
// The single entry point for every XP-earning action. Runs the streak update
// and the level-up loop, then persists and announces the transition.
// ══════════════════════════════════════════════════════════════════════════════

// OperatorProfileID identifies the single operator ledger in events.
const OperatorProfileID = "profile-1"

// Standard awards for the built-in action types.
const (
	// XPDutyTask - награда за выполненную дежурную задачу.
	XPDutyTask = 100

	// XPQuest - награда за завершённый квест.
	XPQuest = 150
)

// GainExperienceCommand contains the data for one experience gain.
type GainExperienceCommand struct {
	// Amount is the XP to credit. Must be non-negative.
	Amount int

	// Source labels what earned the XP ("duty_task", "quest", "revision", ...).
	Source string
}

// Validate validates the command.
func (c GainExperienceCommand) Validate() error {
	if c.Amount < 0 {
		return shared.ErrNegativeGain
	}
	if c.Source == "" {
		return errors.New("gain_experience: source is required")
	}
	return nil
}

// GainExperienceResult contains the result of the transition.
type GainExperienceResult struct {
	// Profile is the ledger after the transition.
	Profile profile.Profile

	// LevelsGained is how many levels this gain produced.
	LevelsGained int

	// MilestoneLevel is the last decade milestone crossed, 0 if none.
	MilestoneLevel int

	// StreakExempt indicates the day was covered by a duty exemption.
	StreakExempt bool

	// AppliedAt is when the transition was applied.
	AppliedAt time.Time
}

// ProgressInvalidator drops cached progress views after a write.
// A nil invalidator is valid and means no cache is configured.
type ProgressInvalidator interface {
	InvalidateProfile(ctx context.Context) error
}

// GainExperienceHandler handles the GainExperienceCommand.
type GainExperienceHandler struct {
	profileRepo    profile.Repository
	eventPublisher shared.EventPublisher
	invalidator    ProgressInvalidator
	clk            clock.Clock
}

// NewGainExperienceHandler creates a new GainExperienceHandler.
func NewGainExperienceHandler(
	profileRepo profile.Repository,
	eventPublisher shared.EventPublisher,
	invalidator ProgressInvalidator,
	clk clock.Clock,
) *GainExperienceHandler {
	return &GainExperienceHandler{
		profileRepo:    profileRepo,
		eventPublisher: eventPublisher,
		invalidator:    invalidator,
		clk:            clk,
	}
}

// Handle executes the gain experience command.
func (h *GainExperienceHandler) Handle(ctx context.Context, cmd GainExperienceCommand) (*GainExperienceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("gain_experience: validation failed: %w", err)
	}

	now := h.clk.Now()
	today := shared.DayOf(now)

	p, err := h.profileRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("gain_experience: failed to load profile: %w", err)
	}

	actx, err := h.loadActivityContext(ctx)
	if err != nil {
		return nil, err
	}

	prevStreak := p.Streak
	res, err := profile.ApplyExperienceGain(p, cmd.Amount, actx, today)
	if err != nil {
		return nil, fmt.Errorf("gain_experience: transition failed: %w", err)
	}

	if err := h.profileRepo.Save(ctx, res.Profile); err != nil {
		return nil, fmt.Errorf("gain_experience: failed to save profile: %w", err)
	}

	if h.invalidator != nil {
		// A failed drop only leaves a stale view until the TTL expires.
		_ = h.invalidator.InvalidateProfile(ctx)
	}

	exempt := actx.ExemptOn(today)
	h.publishEvents(res, cmd, prevStreak, exempt)

	return &GainExperienceResult{
		Profile:        res.Profile,
		LevelsGained:   res.LevelsGained,
		MilestoneLevel: res.MilestoneLevel,
		StreakExempt:   exempt,
		AppliedAt:      now,
	}, nil
}

// loadActivityContext assembles the duty-exemption signals.
func (h *GainExperienceHandler) loadActivityContext(ctx context.Context) (profile.ActivityContext, error) {
	dutyMode, err := h.profileRepo.DutyMode(ctx)
	if err != nil {
		return profile.ActivityContext{}, fmt.Errorf("gain_experience: failed to load duty mode: %w", err)
	}

	dutyDates, err := h.profileRepo.DutyDates(ctx)
	if err != nil {
		return profile.ActivityContext{}, fmt.Errorf("gain_experience: failed to load duty dates: %w", err)
	}

	return profile.ActivityContext{DutyMode: dutyMode, DutyDates: dutyDates}, nil
}

// publishEvents announces the transition on the event bus. Publish failures
// do not roll back the persisted state.
func (h *GainExperienceHandler) publishEvents(res profile.GainResult, cmd GainExperienceCommand, prevStreak int, exempt bool) {
	if h.eventPublisher == nil {
		return
	}

	p := res.Profile
	_ = h.eventPublisher.Publish(shared.NewExperienceGainedEvent(OperatorProfileID, cmd.Amount, p.Level, cmd.Source))

	if res.Milestone() {
		_ = h.eventPublisher.Publish(shared.NewMilestoneReachedEvent(OperatorProfileID, res.MilestoneLevel, p.Medals))
	}
	if p.Streak != prevStreak || exempt {
		_ = h.eventPublisher.Publish(shared.NewStreakUpdatedEvent(OperatorProfileID, p.Streak, p.BestStreak, exempt))
	}
}
