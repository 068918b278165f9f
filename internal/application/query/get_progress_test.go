package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyrus-os/study-hub/internal/domain/profile"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
	"github.com/shyrus-os/study-hub/internal/domain/subject"
	"github.com/shyrus-os/study-hub/pkg/clock"
)

var tick = time.Date(2026, 3, 14, 8, 0, 17, 0, time.UTC)

type memProfileRepo struct {
	p        profile.Profile
	dutyMode bool
}

func (m *memProfileRepo) Get(context.Context) (profile.Profile, error)     { return m.p, nil }
func (m *memProfileRepo) Save(context.Context, profile.Profile) error      { return nil }
func (m *memProfileRepo) DutyDates(context.Context) (shared.DaySet, error) { return shared.NewDaySet(), nil }
func (m *memProfileRepo) AddDutyDate(context.Context, shared.CalendarDay) error {
	return nil
}
func (m *memProfileRepo) RemoveDutyDate(context.Context, shared.CalendarDay) error {
	return nil
}
func (m *memProfileRepo) DutyMode(context.Context) (bool, error) { return m.dutyMode, nil }
func (m *memProfileRepo) SetDutyMode(context.Context, bool) error {
	return nil
}

type stubProfileCache struct {
	p    profile.Profile
	hit  bool
	sets int
}

func (c *stubProfileCache) GetProfile(context.Context) (profile.Profile, error) {
	if !c.hit {
		return profile.Profile{}, assert.AnError
	}
	return c.p, nil
}

func (c *stubProfileCache) SetProfile(_ context.Context, p profile.Profile) error {
	c.p = p
	c.sets++
	return nil
}

func TestGetProgress_ComputesProgressBar(t *testing.T) {
	p := profile.New()
	p.Level = 3
	p.Experience = 450
	p.ExperienceToNextLevel = 1440
	p.Medals = []string{"Iron Vanguard"}

	h := NewGetProgressHandler(&memProfileRepo{p: p, dutyMode: true}, nil, clock.NewStub(tick))

	view, err := h.Handle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, view.Level)
	assert.Equal(t, 31, view.ProgressPercent)
	assert.Equal(t, []string{"Iron Vanguard"}, view.Medals)
	assert.True(t, view.DutyMode)
}

func TestGetProgress_MedalsNeverNil(t *testing.T) {
	h := NewGetProgressHandler(&memProfileRepo{p: profile.New()}, nil, clock.NewStub(tick))

	view, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, view.Medals)
	assert.Empty(t, view.Medals)
}

func TestGetProgress_FlagsLapsedStreak(t *testing.T) {
	p := profile.New()
	p.Streak = 4
	p.LastActivityDate = shared.DayOf(tick.AddDate(0, 0, -3))

	h := NewGetProgressHandler(&memProfileRepo{p: p}, nil, clock.NewStub(tick))

	view, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.True(t, view.StreakLapsed)
}

func TestGetProgress_YesterdayKeepsStreakAlive(t *testing.T) {
	p := profile.New()
	p.Streak = 4
	p.LastActivityDate = shared.DayOf(tick.AddDate(0, 0, -1))

	h := NewGetProgressHandler(&memProfileRepo{p: p}, nil, clock.NewStub(tick))

	view, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.False(t, view.StreakLapsed)
}

func TestGetProgress_PopulatesCacheOnMiss(t *testing.T) {
	cache := &stubProfileCache{}
	h := NewGetProgressHandler(&memProfileRepo{p: profile.New()}, cache, clock.NewStub(tick))

	_, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
}

func TestGetProgress_ServesFromCache(t *testing.T) {
	cached := profile.New()
	cached.Level = 7
	cache := &stubProfileCache{p: cached, hit: true}

	// The repo holds a different level to prove the cache won.
	fresh := profile.New()
	fresh.Level = 2
	h := NewGetProgressHandler(&memProfileRepo{p: fresh}, cache, clock.NewStub(tick))

	view, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, view.Level)
	assert.Zero(t, cache.sets)
}

// ══════════════════════════════════════════════════════════════════════════════
// REVISION QUEUE
// ══════════════════════════════════════════════════════════════════════════════

type memSubjectRepo struct {
	subjects []subject.Subject
}

func (m *memSubjectRepo) List(context.Context) ([]subject.Subject, error) {
	return m.subjects, nil
}

func (m *memSubjectRepo) FindByID(context.Context, string) (subject.Subject, error) {
	return subject.Subject{}, shared.ErrSubjectNotFound
}

func (m *memSubjectRepo) Save(context.Context, subject.Subject) error { return nil }

func (m *memSubjectRepo) LastWarnedOn(context.Context, string) (shared.CalendarDay, error) {
	return "", nil
}

func (m *memSubjectRepo) MarkWarned(context.Context, string, shared.CalendarDay) error {
	return nil
}

func TestGetRevisionQueue_WeakestFirst(t *testing.T) {
	repo := &memSubjectRepo{subjects: []subject.Subject{
		{ID: "fresh", Name: "Anatomy", Priority: subject.PriorityMedium, TopicsTotal: 10, TopicsCompleted: 5, LastStudiedAt: tick.AddDate(0, 0, -2)},
		{ID: "fading", Name: "Pharmacology", Priority: subject.PriorityHigh, TopicsTotal: 10, TopicsCompleted: 5, LastStudiedAt: tick.AddDate(0, 0, -13)},
		{ID: "stale", Name: "Biochemistry", Priority: subject.PriorityLow, TopicsTotal: 10, TopicsCompleted: 5, LastStudiedAt: tick.AddDate(0, 0, -9)},
	}}

	h := NewGetRevisionQueueHandler(repo, clock.NewStub(tick), nil)

	view, err := h.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Items, 3)

	assert.Equal(t, "fading", view.Items[0].SubjectID)
	assert.Equal(t, 35, view.Items[0].Retention)
	assert.True(t, view.Items[0].Critical)
	assert.Equal(t, "stale", view.Items[1].SubjectID)
	assert.Equal(t, "fresh", view.Items[2].SubjectID)
	assert.Equal(t, 1, view.CriticalCount)
}

func TestGetRevisionQueue_SkipsUnstarted(t *testing.T) {
	repo := &memSubjectRepo{subjects: []subject.Subject{
		{ID: "untouched", Name: "Histology", Priority: subject.PriorityLow, TopicsTotal: 10},
	}}

	h := NewGetRevisionQueueHandler(repo, clock.NewStub(tick), nil)

	view, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

type stubRetentionCache struct {
	vals map[string]int
	sets int
}

func (c *stubRetentionCache) GetRetention(_ context.Context, subjectID string) (int, error) {
	if v, ok := c.vals[subjectID]; ok {
		return v, nil
	}
	return 0, assert.AnError
}

func (c *stubRetentionCache) SetRetention(_ context.Context, subjectID string, retention int) error {
	c.vals[subjectID] = retention
	c.sets++
	return nil
}

func TestGetRevisionQueue_ServesRetentionFromCache(t *testing.T) {
	repo := &memSubjectRepo{subjects: []subject.Subject{
		// Two days idle: a fresh computation would come out high.
		{ID: "anatomy", Name: "Anatomy", Priority: subject.PriorityMedium, TopicsTotal: 10, TopicsCompleted: 5, LastStudiedAt: tick.AddDate(0, 0, -2)},
	}}
	cache := &stubRetentionCache{vals: map[string]int{"anatomy": 35}}

	h := NewGetRevisionQueueHandler(repo, clock.NewStub(tick), cache)

	view, err := h.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	assert.Equal(t, 35, view.Items[0].Retention)
	assert.True(t, view.Items[0].Critical)
	assert.Equal(t, 1, view.CriticalCount)
	assert.Zero(t, cache.sets)
}

func TestGetRevisionQueue_PopulatesRetentionCacheOnMiss(t *testing.T) {
	repo := &memSubjectRepo{subjects: []subject.Subject{
		{ID: "pharma", Name: "Pharmacology", Priority: subject.PriorityHigh, TopicsTotal: 10, TopicsCompleted: 5, LastStudiedAt: tick.AddDate(0, 0, -13)},
	}}
	cache := &stubRetentionCache{vals: map[string]int{}}

	h := NewGetRevisionQueueHandler(repo, clock.NewStub(tick), cache)

	view, err := h.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	assert.Equal(t, 35, view.Items[0].Retention)
	assert.Equal(t, 35, cache.vals["pharma"])
	assert.Equal(t, 1, cache.sets)
}
