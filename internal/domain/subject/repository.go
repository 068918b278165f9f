package subject

import (
	"context"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// Repository defines persistence operations for subjects.
// Implementations live in the infrastructure layer.
type Repository interface {
	// List returns all subjects.
	List(ctx context.Context) ([]Subject, error)

	// FindByID returns a subject by its ID.
	FindByID(ctx context.Context, id string) (Subject, error)

	// Save inserts or updates a subject.
	Save(ctx context.Context, s Subject) error

	// LastWarnedOn returns the day a decay warning was last emitted for the
	// subject, or the zero day if never.
	LastWarnedOn(ctx context.Context, id string) (shared.CalendarDay, error)

	// MarkWarned records that a decay warning was emitted on the given day.
	MarkWarned(ctx context.Context, id string, day shared.CalendarDay) error
}
