package subject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestComputeRetention_LinearDecay(t *testing.T) {
	tests := []struct {
		name     string
		daysAgo  float64
		expected int
	}{
		{"fresh", 0, 100},
		{"one day", 1, 95},
		{"ten days", 10, 50},
		{"twenty days", 20, 0},
		{"clamped past zero", 25, 0},
		{"half day rounds", 0.5, 98}, // 100 - 2.5 = 97.5 → 98
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := now.Add(-time.Duration(tt.daysAgo * 24 * float64(time.Hour)))
			assert.Equal(t, tt.expected, ComputeRetention(last, now))
		})
	}
}

func TestComputeRetention_NeverStudied(t *testing.T) {
	assert.Equal(t, 0, ComputeRetention(time.Time{}, now))
}

func TestSubject_UnstartedIsNotCritical(t *testing.T) {
	s := Subject{Name: "Anatomy"}

	assert.True(t, s.Unstarted())
	// Retention reads 0 but the subject is not flagged as decayed.
	assert.Equal(t, 0, s.RetentionAt(now))
	assert.False(t, s.Critical(now))
	assert.False(t, s.NeedsAttention(now))
}

func TestSubject_Thresholds(t *testing.T) {
	s := Subject{Name: "Pharmacology", LastStudiedAt: now.Add(-13 * 24 * time.Hour)}
	// 100 - 65 = 35 < 40: critical.
	assert.True(t, s.Critical(now))
	assert.True(t, s.NeedsAttention(now))

	s.LastStudiedAt = now.Add(-9 * 24 * time.Hour)
	// 55: attention but not critical.
	assert.False(t, s.Critical(now))
	assert.True(t, s.NeedsAttention(now))

	s.LastStudiedAt = now.Add(-24 * time.Hour)
	assert.False(t, s.NeedsAttention(now))
}

func TestSubject_Coverage(t *testing.T) {
	s := Subject{Name: "Surgery", TopicsTotal: 8, TopicsCompleted: 2}
	assert.Equal(t, 25, s.Coverage())

	s.TopicsTotal = 0
	s.TopicsCompleted = 0
	assert.Equal(t, 0, s.Coverage(), "no topics means zero coverage")
}

func TestSubject_RecordRevision(t *testing.T) {
	s := Subject{Name: "Medicine"}
	s.RecordRevision(now)

	assert.Equal(t, 1, s.RevisionCount)
	assert.Equal(t, now, s.LastStudiedAt)
	assert.False(t, s.Unstarted())
	assert.Equal(t, 100, s.RetentionAt(now))
}

func TestDaysIdle(t *testing.T) {
	assert.Equal(t, 0, DaysIdle(time.Time{}, now))
	assert.Equal(t, 3, DaysIdle(now.Add(-80*time.Hour), now))
}
