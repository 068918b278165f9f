package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Progression events
	EventExperienceGained EventType = "progression.experience_gained"
	EventLevelUp          EventType = "progression.level_up"
	EventMilestoneReached EventType = "progression.milestone_reached"
	EventStreakUpdated    EventType = "progression.streak_updated"
	EventStreakBroken     EventType = "progression.streak_broken"

	// Subject events
	EventSubjectRevised     EventType = "subject.revised"
	EventRetentionCritical  EventType = "subject.retention_critical"
	EventRetentionAttention EventType = "subject.retention_attention"

	// Temporal events
	EventScheduleDue EventType = "temporal.schedule_due"
	EventReminderDue EventType = "temporal.reminder_due"

	// Notification events
	EventNotificationCreated   EventType = "notification.created"
	EventNotificationDismissed EventType = "notification.dismissed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progression Events
// ═══════════════════════════════════════════════════════════════════════════

// ExperienceGainedEvent is emitted every time the ledger absorbs experience.
type ExperienceGainedEvent struct {
	BaseEvent
	Amount   int    `json:"amount"`
	NewLevel int    `json:"new_level"`
	Source   string `json:"source"`
}

// Payload implements Event interface.
func (e ExperienceGainedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"amount":    e.Amount,
		"new_level": e.NewLevel,
		"source":    e.Source,
	}
}

// NewExperienceGainedEvent creates a new ExperienceGainedEvent.
func NewExperienceGainedEvent(profileID string, amount, newLevel int, source string) ExperienceGainedEvent {
	return ExperienceGainedEvent{
		BaseEvent: NewBaseEvent(EventExperienceGained, profileID),
		Amount:    amount,
		NewLevel:  newLevel,
		Source:    source,
	}
}

// MilestoneReachedEvent is emitted when a level-up crosses a decade boundary.
type MilestoneReachedEvent struct {
	BaseEvent
	MilestoneLevel int      `json:"milestone_level"`
	Medals         []string `json:"medals"`
}

// Payload implements Event interface.
func (e MilestoneReachedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"milestone_level": e.MilestoneLevel,
		"medals":          e.Medals,
	}
}

// NewMilestoneReachedEvent creates a new MilestoneReachedEvent.
func NewMilestoneReachedEvent(profileID string, level int, medals []string) MilestoneReachedEvent {
	return MilestoneReachedEvent{
		BaseEvent:      NewBaseEvent(EventMilestoneReached, profileID),
		MilestoneLevel: level,
		Medals:         medals,
	}
}

// StreakUpdatedEvent is emitted when the daily streak changes.
type StreakUpdatedEvent struct {
	BaseEvent
	Streak     int  `json:"streak"`
	BestStreak int  `json:"best_streak"`
	Exempt     bool `json:"exempt"`
}

// Payload implements Event interface.
func (e StreakUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"streak":      e.Streak,
		"best_streak": e.BestStreak,
		"exempt":      e.Exempt,
	}
}

// NewStreakUpdatedEvent creates a new StreakUpdatedEvent.
func NewStreakUpdatedEvent(profileID string, streak, bestStreak int, exempt bool) StreakUpdatedEvent {
	return StreakUpdatedEvent{
		BaseEvent:  NewBaseEvent(EventStreakUpdated, profileID),
		Streak:     streak,
		BestStreak: bestStreak,
		Exempt:     exempt,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Subject Events
// ═══════════════════════════════════════════════════════════════════════════

// RetentionCriticalEvent is emitted when a subject decays below the
// critical threshold.
type RetentionCriticalEvent struct {
	BaseEvent
	SubjectName string `json:"subject_name"`
	Retention   int    `json:"retention"`
	DaysIdle    int    `json:"days_idle"`
}

// Payload implements Event interface.
func (e RetentionCriticalEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"subject_name": e.SubjectName,
		"retention":    e.Retention,
		"days_idle":    e.DaysIdle,
	}
}

// NewRetentionCriticalEvent creates a new RetentionCriticalEvent.
func NewRetentionCriticalEvent(subjectID, name string, retention, daysIdle int) RetentionCriticalEvent {
	return RetentionCriticalEvent{
		BaseEvent:   NewBaseEvent(EventRetentionCritical, subjectID),
		SubjectName: name,
		Retention:   retention,
		DaysIdle:    daysIdle,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Temporal Events
// ═══════════════════════════════════════════════════════════════════════════

// ScheduleDueEvent is emitted when a schedule entry reaches its start minute.
type ScheduleDueEvent struct {
	BaseEvent
	Label    string `json:"label"`
	Category string `json:"category"`
	Day      string `json:"day"`
}

// Payload implements Event interface.
func (e ScheduleDueEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"label":    e.Label,
		"category": e.Category,
		"day":      e.Day,
	}
}

// NewScheduleDueEvent creates a new ScheduleDueEvent.
func NewScheduleDueEvent(entryID, label, category string, day CalendarDay) ScheduleDueEvent {
	return ScheduleDueEvent{
		BaseEvent: NewBaseEvent(EventScheduleDue, entryID),
		Label:     label,
		Category:  category,
		Day:       day.String(),
	}
}

// ReminderDueEvent is emitted when a reminder fires.
type ReminderDueEvent struct {
	BaseEvent
	Label   string `json:"label"`
	OneTime bool   `json:"one_time"`
	Day     string `json:"day"`
}

// Payload implements Event interface.
func (e ReminderDueEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"label":    e.Label,
		"one_time": e.OneTime,
		"day":      e.Day,
	}
}

// NewReminderDueEvent creates a new ReminderDueEvent.
func NewReminderDueEvent(reminderID, label string, oneTime bool, day CalendarDay) ReminderDueEvent {
	return ReminderDueEvent{
		BaseEvent: NewBaseEvent(EventReminderDue, reminderID),
		Label:     label,
		OneTime:   oneTime,
		Day:       day.String(),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID          string          `json:"id"`
	Type        EventType       `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Version     int             `json:"version"`
	Payload     json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
