// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/shyrus-os/study-hub/internal/domain/profile"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
	"github.com/shyrus-os/study-hub/pkg/clock"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROGRESS QUERY
// The dashboard's headline read: the full ledger with a computed progress bar.
// ══════════════════════════════════════════════════════════════════════════════

// ProgressView is the read model for the operator's progression state.
type ProgressView struct {
	Level                 int      `json:"level"`
	Experience            int      `json:"experience"`
	ExperienceToNextLevel int      `json:"experience_to_next_level"`
	ProgressPercent       int      `json:"progress_percent"`
	FocusRating           int      `json:"focus_rating"`
	DisciplineRating      int      `json:"discipline_rating"`
	Consistency           int      `json:"consistency"`
	Streak                int      `json:"streak"`
	BestStreak            int      `json:"best_streak"`
	Medals                []string `json:"medals"`
	DutyMode              bool     `json:"duty_mode"`
	StreakLapsed          bool     `json:"streak_lapsed"`
	LastActivityDate      string   `json:"last_activity_date,omitempty"`
}

// ProfileCache is a read-through cache for the profile snapshot.
// A nil cache is valid and means every read goes to the database.
type ProfileCache interface {
	GetProfile(ctx context.Context) (profile.Profile, error)
	SetProfile(ctx context.Context, p profile.Profile) error
}

// GetProgressHandler handles the progress query.
type GetProgressHandler struct {
	profileRepo profile.Repository
	cache       ProfileCache
	clk         clock.Clock
}

// NewGetProgressHandler creates a new GetProgressHandler.
func NewGetProgressHandler(profileRepo profile.Repository, cache ProfileCache, clk clock.Clock) *GetProgressHandler {
	return &GetProgressHandler{profileRepo: profileRepo, cache: cache, clk: clk}
}

// Handle returns the current progression view.
func (h *GetProgressHandler) Handle(ctx context.Context) (*ProgressView, error) {
	p, fromCache := h.loadProfile(ctx)

	var err error
	if !fromCache {
		p, err = h.profileRepo.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("get_progress: failed to load profile: %w", err)
		}
		if h.cache != nil {
			_ = h.cache.SetProfile(ctx, p)
		}
	}

	dutyMode, err := h.profileRepo.DutyMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_progress: failed to load duty mode: %w", err)
	}

	view := &ProgressView{
		Level:                 p.Level,
		Experience:            p.Experience,
		ExperienceToNextLevel: p.ExperienceToNextLevel,
		FocusRating:           int(p.FocusRating),
		DisciplineRating:      int(p.DisciplineRating),
		Consistency:           int(p.Consistency),
		Streak:                p.Streak,
		BestStreak:            p.BestStreak,
		Medals:                p.Medals,
		DutyMode:              dutyMode,
		StreakLapsed:          profile.StreakBrokenSince(p, shared.DayOf(h.clk.Now())),
	}
	if p.ExperienceToNextLevel > 0 {
		view.ProgressPercent = p.Experience * 100 / p.ExperienceToNextLevel
	}
	if !p.LastActivityDate.IsZero() {
		view.LastActivityDate = string(p.LastActivityDate)
	}
	if view.Medals == nil {
		view.Medals = []string{}
	}

	return view, nil
}

// loadProfile tries the cache first. Cache errors are treated as misses.
func (h *GetProgressHandler) loadProfile(ctx context.Context) (profile.Profile, bool) {
	if h.cache == nil {
		return profile.Profile{}, false
	}
	p, err := h.cache.GetProfile(ctx)
	if err != nil {
		return profile.Profile{}, false
	}
	return p, true
}
