package command

import (
	"context"
	"fmt"

	"github.com/shyrus-os/study-hub/internal/domain/profile"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DUTY MANAGEMENT COMMANDS
// Duty mode and duty dates feed the streak tracker's exemption check.
// ══════════════════════════════════════════════════════════════════════════════

// ManageDutyHandler toggles duty mode and edits the duty-date calendar.
type ManageDutyHandler struct {
	profileRepo profile.Repository
	invalidator ProgressInvalidator
}

// NewManageDutyHandler creates a new ManageDutyHandler.
func NewManageDutyHandler(profileRepo profile.Repository, invalidator ProgressInvalidator) *ManageDutyHandler {
	return &ManageDutyHandler{profileRepo: profileRepo, invalidator: invalidator}
}

// SetDutyMode switches hospital duty mode on or off.
func (h *ManageDutyHandler) SetDutyMode(ctx context.Context, on bool) error {
	if err := h.profileRepo.SetDutyMode(ctx, on); err != nil {
		return fmt.Errorf("manage_duty: failed to set duty mode: %w", err)
	}
	h.invalidate(ctx)
	return nil
}

// AddDutyDate marks a calendar day as a duty day.
func (h *ManageDutyHandler) AddDutyDate(ctx context.Context, day shared.CalendarDay) error {
	if !day.IsValid() {
		return shared.ErrInvalidFormat
	}
	if err := h.profileRepo.AddDutyDate(ctx, day); err != nil {
		return fmt.Errorf("manage_duty: failed to add duty date: %w", err)
	}
	h.invalidate(ctx)
	return nil
}

// RemoveDutyDate unmarks a duty day.
func (h *ManageDutyHandler) RemoveDutyDate(ctx context.Context, day shared.CalendarDay) error {
	if !day.IsValid() {
		return shared.ErrInvalidFormat
	}
	if err := h.profileRepo.RemoveDutyDate(ctx, day); err != nil {
		return fmt.Errorf("manage_duty: failed to remove duty date: %w", err)
	}
	h.invalidate(ctx)
	return nil
}

// DutyState returns the current exemption signals.
func (h *ManageDutyHandler) DutyState(ctx context.Context) (profile.ActivityContext, error) {
	dutyMode, err := h.profileRepo.DutyMode(ctx)
	if err != nil {
		return profile.ActivityContext{}, fmt.Errorf("manage_duty: failed to load duty mode: %w", err)
	}
	dutyDates, err := h.profileRepo.DutyDates(ctx)
	if err != nil {
		return profile.ActivityContext{}, fmt.Errorf("manage_duty: failed to load duty dates: %w", err)
	}
	return profile.ActivityContext{DutyMode: dutyMode, DutyDates: dutyDates}, nil
}

func (h *ManageDutyHandler) invalidate(ctx context.Context) {
	if h.invalidator != nil {
		_ = h.invalidator.InvalidateProfile(ctx)
	}
}
