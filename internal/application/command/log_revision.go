package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOG REVISION COMMAND
// A revision pass resets the subject's decay clock and earns XP.
// ══════════════════════════════════════════════════════════════════════════════

// XPRevision - награда за один проход повторения.
const XPRevision = 50

// LogRevisionCommand contains the data for one revision pass.
type LogRevisionCommand struct {
	// SubjectID is the subject that was revised.
	SubjectID string
}

// Validate validates the command.
func (c LogRevisionCommand) Validate() error {
	if c.SubjectID == "" {
		return errors.New("log_revision: subject_id is required")
	}
	return nil
}

// LogRevisionResult contains the result of logging a revision.
type LogRevisionResult struct {
	// Subject is the subject after the decay clock reset.
	Subject subject.Subject

	// Retention is the retention right after the pass (always 100).
	Retention int

	// Gain is the progression transition triggered by the pass.
	Gain *GainExperienceResult
}

// RetentionInvalidator drops a subject's cached retention after a write.
type RetentionInvalidator interface {
	InvalidateRetention(ctx context.Context, subjectID string) error
}

// LogRevisionHandler handles the LogRevisionCommand.
type LogRevisionHandler struct {
	subjectRepo subject.Repository
	gainHandler *GainExperienceHandler
	invalidator RetentionInvalidator
	now         func() time.Time
}

// NewLogRevisionHandler creates a new LogRevisionHandler. The gain handler
// carries its own clock; now is used for the decay clock reset.
func NewLogRevisionHandler(
	subjectRepo subject.Repository,
	gainHandler *GainExperienceHandler,
	invalidator RetentionInvalidator,
	now func() time.Time,
) *LogRevisionHandler {
	if now == nil {
		now = time.Now
	}
	return &LogRevisionHandler{
		subjectRepo: subjectRepo,
		gainHandler: gainHandler,
		invalidator: invalidator,
		now:         now,
	}
}

// Handle executes the log revision command.
func (h *LogRevisionHandler) Handle(ctx context.Context, cmd LogRevisionCommand) (*LogRevisionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("log_revision: validation failed: %w", err)
	}

	s, err := h.subjectRepo.FindByID(ctx, cmd.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("log_revision: failed to load subject: %w", err)
	}

	at := h.now()
	s.RecordRevision(at)

	if err := h.subjectRepo.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("log_revision: failed to save subject: %w", err)
	}

	if h.invalidator != nil {
		_ = h.invalidator.InvalidateRetention(ctx, s.ID)
	}

	gain, err := h.gainHandler.Handle(ctx, GainExperienceCommand{
		Amount: XPRevision,
		Source: "revision",
	})
	if err != nil {
		// The revision itself is already persisted.
		return nil, fmt.Errorf("log_revision: revision saved but progression failed: %w", err)
	}

	return &LogRevisionResult{
		Subject:   s,
		Retention: s.RetentionAt(at),
		Gain:      gain,
	}, nil
}
