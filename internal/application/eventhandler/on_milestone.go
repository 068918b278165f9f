// Package eventhandler wires domain events to their side effects.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/notification"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESSION EVENT HANDLERS
// Milestones and streak records become feed notifications. Engine transitions
// never wait on the feed: these run on the bus, after the ledger is saved.
// ══════════════════════════════════════════════════════════════════════════════

// ProgressionNotifier turns progression events into notifications.
type ProgressionNotifier struct {
	notifRepo notification.Repository
	logger    *slog.Logger
	timeout   time.Duration
}

// NewProgressionNotifier creates a new ProgressionNotifier.
func NewProgressionNotifier(notifRepo notification.Repository, logger *slog.Logger) *ProgressionNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressionNotifier{
		notifRepo: notifRepo,
		logger:    logger,
		timeout:   5 * time.Second,
	}
}

// Register subscribes the notifier's handlers on the bus.
func (n *ProgressionNotifier) Register(bus shared.EventSubscriber) error {
	if err := bus.Subscribe(shared.EventMilestoneReached, n.onMilestone); err != nil {
		return err
	}
	return bus.Subscribe(shared.EventStreakUpdated, n.onStreak)
}

// onMilestone announces a crossed decade level.
func (n *ProgressionNotifier) onMilestone(e shared.Event) error {
	evt, ok := e.(shared.MilestoneReachedEvent)
	if !ok {
		return nil
	}

	msg := fmt.Sprintf("Sir, level %d reached. Outstanding work.", evt.MilestoneLevel)
	if len(evt.Medals) > 0 {
		msg = fmt.Sprintf("Sir, level %d reached. Medal awarded: %s.", evt.MilestoneLevel, evt.Medals[len(evt.Medals)-1])
	}

	return n.append(notification.CategoryGeneral, msg, e.OccurredAt())
}

// onStreak announces a new personal best. Ordinary increments stay quiet,
// the feed is for signal.
func (n *ProgressionNotifier) onStreak(e shared.Event) error {
	evt, ok := e.(shared.StreakUpdatedEvent)
	if !ok {
		return nil
	}
	if evt.Exempt || evt.Streak < 2 || evt.Streak != evt.BestStreak {
		return nil
	}

	msg := fmt.Sprintf("Sir, a new record: %d consecutive days of study.", evt.Streak)
	return n.append(notification.CategoryGeneral, msg, e.OccurredAt())
}

func (n *ProgressionNotifier) append(category notification.Category, msg string, at time.Time) error {
	notif, err := notification.New(category, msg, at)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	if err := n.notifRepo.Append(ctx, notif); err != nil {
		n.logger.Error("failed to append progression notification", "error", err)
		return err
	}
	return nil
}
