package subject

import (
	"math"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// RETENTION MODEL
// Линейное затухание: 5 процентных пунктов за каждый прошедший день.
// ══════════════════════════════════════════════════════════════════════════════

// Retention policy constants. The thresholds are prioritization policy,
// not structural invariants.
const (
	// DecayPerDay - скорость затухания, п.п. в день.
	DecayPerDay = 5.0

	// CriticalThreshold - ниже этого значения дисциплина требует
	// немедленного повторения.
	CriticalThreshold = 40

	// AttentionThreshold - ниже этого значения дисциплина попадает
	// в очередь на повторение.
	AttentionThreshold = 60
)

// ComputeRetention returns the decayed mastery percentage (0..100) for a
// subject last studied at the given moment. A zero lastStudiedAt reports 0;
// callers should consult Unstarted() to tell "never studied" apart from
// "fully decayed".
func ComputeRetention(lastStudiedAt, now time.Time) int {
	if lastStudiedAt.IsZero() {
		return 0
	}
	daysPassed := now.Sub(lastStudiedAt).Hours() / 24
	retention := 100 - daysPassed*DecayPerDay
	if retention < 0 {
		return 0
	}
	return int(math.Round(retention))
}

// DaysIdle returns the number of whole days since the last study session.
func DaysIdle(lastStudiedAt, now time.Time) int {
	if lastStudiedAt.IsZero() {
		return 0
	}
	return int(now.Sub(lastStudiedAt).Hours() / 24)
}

// RetentionAt computes the subject's current retention.
func (s Subject) RetentionAt(now time.Time) int {
	return ComputeRetention(s.LastStudiedAt, now)
}

// Critical reports whether the subject needs immediate revision.
func (s Subject) Critical(now time.Time) bool {
	return !s.Unstarted() && s.RetentionAt(now) < CriticalThreshold
}

// NeedsAttention reports whether the subject belongs in the revision queue.
func (s Subject) NeedsAttention(now time.Time) bool {
	return !s.Unstarted() && s.RetentionAt(now) < AttentionThreshold
}
