package profile

import (
	"context"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// Repository defines persistence operations for the profile ledger.
// Implementations live in the infrastructure layer.
type Repository interface {
	// Get returns the single operator ledger.
	Get(ctx context.Context) (Profile, error)

	// Save persists the ledger after an engine transition.
	Save(ctx context.Context, p Profile) error

	// DutyDates returns the duty-date calendar.
	DutyDates(ctx context.Context) (shared.DaySet, error)

	// AddDutyDate marks a day as a duty day.
	AddDutyDate(ctx context.Context, day shared.CalendarDay) error

	// RemoveDutyDate unmarks a duty day.
	RemoveDutyDate(ctx context.Context, day shared.CalendarDay) error

	// DutyMode reports whether the duty-mode flag is on.
	DutyMode(ctx context.Context) (bool, error)

	// SetDutyMode toggles the duty-mode flag.
	SetDutyMode(ctx context.Context, on bool) error
}
