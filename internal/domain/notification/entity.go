// Package notification содержит доменную модель тактических уведомлений.
// Уведомления эфемерны: их создают наблюдатели планировщика, а удаляет
// только явное действие пользователя.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// Category classifies what produced the notification.
type Category string

const (
	CategorySchedule Category = "schedule"
	CategoryAlarm    Category = "alarm"
	CategoryRevision Category = "revision"
	CategoryGeneral  Category = "general"
)

// IsValid проверяет корректность категории.
func (c Category) IsValid() bool {
	switch c {
	case CategorySchedule, CategoryAlarm, CategoryRevision, CategoryGeneral:
		return true
	default:
		return false
	}
}

// Notification is one user-visible alert.
type Notification struct {
	// ID - идентификатор уведомления.
	ID string

	// Message - текст уведомления.
	Message string

	// Category - источник уведомления.
	Category Category

	// CreatedAt - момент создания.
	CreatedAt time.Time

	// Read - просмотрено ли уведомление.
	Read bool
}

// New creates a notification with a fresh ID.
func New(category Category, message string, now time.Time) (Notification, error) {
	if message == "" {
		return Notification{}, shared.ErrEmptyMessage
	}
	if !category.IsValid() {
		return Notification{}, shared.NewDomainError("notification", "New", shared.ErrInvalidInput, "unknown notification category")
	}
	return Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Category:  category,
		CreatedAt: now,
	}, nil
}

// ForScheduleEntry builds the standard message for a due schedule block.
func ForScheduleEntry(label, category string, now time.Time) (Notification, error) {
	msg := fmt.Sprintf("Sir, your %s session %q is starting now. Deploy immediately.", category, label)
	return New(CategorySchedule, msg, now)
}

// ForReminder builds the standard message for a fired reminder.
func ForReminder(label string, now time.Time) (Notification, error) {
	return New(CategoryAlarm, fmt.Sprintf("Reminder: %s", label), now)
}

// ForRetentionWarning builds the decay-warning message for a subject.
func ForRetentionWarning(subjectName string, retention int, now time.Time) (Notification, error) {
	msg := fmt.Sprintf("Sir, synaptic strength in %s is down to %d%%. Schedule a revision pass.", subjectName, retention)
	return New(CategoryRevision, msg, now)
}

// Repository defines persistence operations for notifications.
type Repository interface {
	// List returns all notifications, newest first.
	List(ctx context.Context) ([]Notification, error)

	// Append stores a new notification.
	Append(ctx context.Context, n Notification) error

	// Dismiss removes a notification by ID.
	Dismiss(ctx context.Context, id string) error

	// MarkRead flags a notification as read.
	MarkRead(ctx context.Context, id string) error
}
