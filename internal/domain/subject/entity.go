// Package subject содержит доменную модель учебных дисциплин и модель
// временного затухания удержания материала.
package subject

import (
	"strings"
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// Priority ranks how urgently a subject needs attention in planning.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid проверяет корректность приоритета.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Subject is one study discipline tracked by the revision engine.
type Subject struct {
	// ID - идентификатор дисциплины.
	ID string

	// Name - название дисциплины.
	Name string

	// Priority - приоритет в планировании.
	Priority Priority

	// TopicsTotal / TopicsCompleted - покрытие по темам.
	TopicsTotal     int
	TopicsCompleted int

	// RevisionCount - сколько раз дисциплина повторялась.
	RevisionCount int

	// LastStudiedAt - момент последнего занятия. Нулевое время означает,
	// что дисциплина ещё не начиналась.
	LastStudiedAt time.Time
}

// Validate checks the subject's structural invariants.
func (s Subject) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return shared.ErrEmptySubjectName
	}
	if s.TopicsTotal < 0 || s.TopicsCompleted < 0 || s.TopicsCompleted > s.TopicsTotal {
		return shared.NewDomainError("subject", "Validate", shared.ErrValueOutOfRange, "topic counts are inconsistent")
	}
	if s.RevisionCount < 0 {
		return shared.NewDomainError("subject", "Validate", shared.ErrNegativeValue, "revision count cannot be negative")
	}
	return nil
}

// Coverage returns completed-topics / total-topics as a 0..100 percentage,
// or 0 when no topics are registered.
func (s Subject) Coverage() int {
	if s.TopicsTotal == 0 {
		return 0
	}
	return s.TopicsCompleted * 100 / s.TopicsTotal
}

// Unstarted reports whether the subject has never been studied. Callers that
// present retention should distinguish this from a fully decayed subject.
func (s Subject) Unstarted() bool {
	return s.LastStudiedAt.IsZero()
}

// RecordRevision stamps a completed revision session.
func (s *Subject) RecordRevision(at time.Time) {
	s.RevisionCount++
	s.LastStudiedAt = at
}
