package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

func TestUpdateStreak_Continuation(t *testing.T) {
	p := New()
	p.Streak = 4
	p.BestStreak = 4
	p.LastActivityDate = day.AddDays(-1)

	out := UpdateStreak(p, day, false)

	assert.Equal(t, 5, out.Streak)
	assert.Equal(t, 5, out.BestStreak)
	assert.Equal(t, day, out.LastActivityDate)
}

func TestUpdateStreak_BrokenChainResetsToOne(t *testing.T) {
	p := New()
	p.Streak = 9
	p.BestStreak = 9
	p.LastActivityDate = day.AddDays(-2)

	out := UpdateStreak(p, day, false)

	assert.Equal(t, 1, out.Streak)
	assert.Equal(t, 9, out.BestStreak, "best streak survives the reset")
	assert.Equal(t, day, out.LastActivityDate)
}

func TestUpdateStreak_FirstEverActivity(t *testing.T) {
	out := UpdateStreak(New(), day, false)

	assert.Equal(t, 1, out.Streak)
	assert.Equal(t, 1, out.BestStreak)
	assert.Equal(t, day, out.LastActivityDate)
}

func TestUpdateStreak_SameDayIsNoOp(t *testing.T) {
	p := New()
	p.Streak = 3
	p.LastActivityDate = day

	out := UpdateStreak(p, day, false)

	assert.Equal(t, 3, out.Streak)
	assert.Equal(t, day, out.LastActivityDate)
}

func TestUpdateStreak_DutyExemptionPreservesStreak(t *testing.T) {
	p := New()
	p.Streak = 7
	p.LastActivityDate = day.AddDays(-1)

	out := UpdateStreak(p, day, true)

	assert.Equal(t, 7, out.Streak, "exempt day never touches the counter")
	assert.Equal(t, day, out.LastActivityDate)
}

func TestUpdateStreak_ExemptionAfterLongGap(t *testing.T) {
	p := New()
	p.Streak = 12
	p.LastActivityDate = day.AddDays(-30)

	out := UpdateStreak(p, day, true)

	assert.Equal(t, 12, out.Streak)
	assert.Equal(t, day, out.LastActivityDate)
}

func TestActivityContext_ExemptOn(t *testing.T) {
	ctx := ActivityContext{DutyDates: shared.NewDaySet(day)}
	assert.True(t, ctx.ExemptOn(day))
	assert.False(t, ctx.ExemptOn(day.AddDays(1)))

	ctx = ActivityContext{DutyMode: true}
	assert.True(t, ctx.ExemptOn(day.AddDays(1)))
}

func TestStreakBrokenSince(t *testing.T) {
	p := New()
	assert.False(t, StreakBrokenSince(p, day), "no history means nothing to break")

	p.LastActivityDate = day.AddDays(-1)
	assert.False(t, StreakBrokenSince(p, day))

	p.LastActivityDate = day.AddDays(-2)
	assert.True(t, StreakBrokenSince(p, day))
}
