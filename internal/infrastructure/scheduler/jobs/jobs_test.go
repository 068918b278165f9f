package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyrus-os/study-hub/internal/domain/notification"
	"github.com/shyrus-os/study-hub/internal/domain/profile"
	"github.com/shyrus-os/study-hub/internal/domain/schedule"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
	"github.com/shyrus-os/study-hub/internal/domain/subject"
	"github.com/shyrus-os/study-hub/internal/infrastructure/external/mentor"
	"github.com/shyrus-os/study-hub/pkg/clock"
)

// 2026-03-14 is a Saturday.
var tick = time.Date(2026, 3, 14, 8, 0, 17, 0, time.UTC)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// ══════════════════════════════════════════════════════════════════════════════

type memEntryRepo struct {
	entries map[string]schedule.Entry
}

func newMemEntryRepo(entries ...schedule.Entry) *memEntryRepo {
	r := &memEntryRepo{entries: make(map[string]schedule.Entry)}
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return r
}

func (r *memEntryRepo) List(_ context.Context) ([]schedule.Entry, error) {
	out := make([]schedule.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *memEntryRepo) Save(_ context.Context, e schedule.Entry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *memEntryRepo) Delete(_ context.Context, id string) error {
	delete(r.entries, id)
	return nil
}

type memReminderRepo struct {
	reminders map[string]schedule.Reminder
}

func newMemReminderRepo(reminders ...schedule.Reminder) *memReminderRepo {
	r := &memReminderRepo{reminders: make(map[string]schedule.Reminder)}
	for _, rem := range reminders {
		r.reminders[rem.ID] = rem
	}
	return r
}

func (r *memReminderRepo) List(_ context.Context) ([]schedule.Reminder, error) {
	out := make([]schedule.Reminder, 0, len(r.reminders))
	for _, rem := range r.reminders {
		out = append(out, rem)
	}
	return out, nil
}

func (r *memReminderRepo) Save(_ context.Context, rem schedule.Reminder) error {
	r.reminders[rem.ID] = rem
	return nil
}

func (r *memReminderRepo) Delete(_ context.Context, id string) error {
	delete(r.reminders, id)
	return nil
}

type memNotifRepo struct {
	notifications []notification.Notification
}

func (r *memNotifRepo) List(_ context.Context) ([]notification.Notification, error) {
	return r.notifications, nil
}

func (r *memNotifRepo) Append(_ context.Context, n notification.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *memNotifRepo) Dismiss(_ context.Context, id string) error {
	for i, n := range r.notifications {
		if n.ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotificationNotFound
}

func (r *memNotifRepo) MarkRead(_ context.Context, id string) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].Read = true
			return nil
		}
	}
	return shared.ErrNotificationNotFound
}

type memSubjectRepo struct {
	subjects map[string]subject.Subject
	warned   map[string]shared.CalendarDay
}

func newMemSubjectRepo(subjects ...subject.Subject) *memSubjectRepo {
	r := &memSubjectRepo{
		subjects: make(map[string]subject.Subject),
		warned:   make(map[string]shared.CalendarDay),
	}
	for _, s := range subjects {
		r.subjects[s.ID] = s
	}
	return r
}

func (r *memSubjectRepo) List(_ context.Context) ([]subject.Subject, error) {
	out := make([]subject.Subject, 0, len(r.subjects))
	for _, s := range r.subjects {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSubjectRepo) FindByID(_ context.Context, id string) (subject.Subject, error) {
	s, ok := r.subjects[id]
	if !ok {
		return subject.Subject{}, shared.ErrSubjectNotFound
	}
	return s, nil
}

func (r *memSubjectRepo) Save(_ context.Context, s subject.Subject) error {
	r.subjects[s.ID] = s
	return nil
}

func (r *memSubjectRepo) LastWarnedOn(_ context.Context, id string) (shared.CalendarDay, error) {
	return r.warned[id], nil
}

func (r *memSubjectRepo) MarkWarned(_ context.Context, id string, day shared.CalendarDay) error {
	r.warned[id] = day
	return nil
}

type memProfileRepo struct {
	p profile.Profile
}

func (r *memProfileRepo) Get(_ context.Context) (profile.Profile, error)  { return r.p, nil }
func (r *memProfileRepo) Save(_ context.Context, p profile.Profile) error { r.p = p; return nil }
func (r *memProfileRepo) DutyDates(_ context.Context) (shared.DaySet, error) {
	return shared.NewDaySet(), nil
}
func (r *memProfileRepo) AddDutyDate(_ context.Context, _ shared.CalendarDay) error    { return nil }
func (r *memProfileRepo) RemoveDutyDate(_ context.Context, _ shared.CalendarDay) error { return nil }
func (r *memProfileRepo) DutyMode(_ context.Context) (bool, error)                     { return false, nil }
func (r *memProfileRepo) SetDutyMode(_ context.Context, _ bool) error                  { return nil }

type capturingPublisher struct {
	events []shared.Event
}

func (p *capturingPublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

type stubComposer struct {
	text  string
	err   error
	last  mentor.BriefingInput
	calls int
}

func (c *stubComposer) DailyBriefing(_ context.Context, in mentor.BriefingInput) (string, error) {
	c.last = in
	c.calls++
	return c.text, c.err
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE WATCH
// ══════════════════════════════════════════════════════════════════════════════

func TestScheduleWatchJob_FiresOncePerDay(t *testing.T) {
	entry := schedule.Entry{
		ID:        "e1",
		StartTime: shared.DayTime("08:00"),
		EndTime:   shared.DayTime("09:30"),
		Label:     "Anatomy deep dive",
		Category:  schedule.CategoryStudy,
	}
	entryRepo := newMemEntryRepo(entry)
	notifRepo := &memNotifRepo{}
	publisher := &capturingPublisher{}
	clk := clock.NewStub(tick)

	job := NewScheduleWatchJob(entryRepo, notifRepo, publisher, clk, nil)

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, notifRepo.notifications, 1)
	assert.Contains(t, notifRepo.notifications[0].Message, "Anatomy deep dive")
	assert.Equal(t, notification.CategorySchedule, notifRepo.notifications[0].Category)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventScheduleDue, publisher.events[0].EventType())

	// Same minute again: the persisted guard suppresses the duplicate.
	clk.Advance(20 * time.Second)
	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, notifRepo.notifications, 1)

	// Next day, same minute: fires again.
	clk.Set(tick.AddDate(0, 0, 1))
	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, notifRepo.notifications, 2)
}

func TestScheduleWatchJob_WrongMinuteIsQuiet(t *testing.T) {
	entry := schedule.Entry{
		ID:        "e1",
		StartTime: shared.DayTime("08:01"),
		EndTime:   shared.DayTime("09:00"),
		Label:     "Ward rounds",
		Category:  schedule.CategoryHospital,
	}
	entryRepo := newMemEntryRepo(entry)
	notifRepo := &memNotifRepo{}

	job := NewScheduleWatchJob(entryRepo, notifRepo, nil, clock.NewStub(tick), nil)

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, notifRepo.notifications)
}

func TestScheduleWatchJob_GuardPersistsAcrossInstances(t *testing.T) {
	entry := schedule.Entry{
		ID:        "e1",
		StartTime: shared.DayTime("08:00"),
		EndTime:   shared.DayTime("09:00"),
		Label:     "Histology",
		Category:  schedule.CategoryStudy,
	}
	entryRepo := newMemEntryRepo(entry)
	notifRepo := &memNotifRepo{}

	first := NewScheduleWatchJob(entryRepo, notifRepo, nil, clock.NewStub(tick), nil)
	require.NoError(t, first.Run(context.Background()))
	require.Len(t, notifRepo.notifications, 1)

	// A fresh job instance over the same store simulates a restart.
	second := NewScheduleWatchJob(entryRepo, notifRepo, nil, clock.NewStub(tick.Add(10*time.Second)), nil)
	require.NoError(t, second.Run(context.Background()))
	assert.Len(t, notifRepo.notifications, 1)
}

// ══════════════════════════════════════════════════════════════════════════════
// REMINDER WATCH
// ══════════════════════════════════════════════════════════════════════════════

func TestReminderWatchJob_RecurringFiresOnMatchingWeekday(t *testing.T) {
	rem := schedule.Reminder{
		ID:             "r1",
		Label:          "Take flashcards",
		Time:           shared.DayTime("08:00"),
		Active:         true,
		RecurrenceDays: []time.Weekday{time.Saturday},
	}
	remRepo := newMemReminderRepo(rem)
	notifRepo := &memNotifRepo{}
	publisher := &capturingPublisher{}

	job := NewReminderWatchJob(remRepo, notifRepo, publisher, clock.NewStub(tick), nil)

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, notifRepo.notifications, 1)
	assert.Contains(t, notifRepo.notifications[0].Message, "Take flashcards")
	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventReminderDue, publisher.events[0].EventType())
}

func TestReminderWatchJob_SkipsNonMatchingWeekday(t *testing.T) {
	rem := schedule.Reminder{
		ID:             "r1",
		Label:          "Take flashcards",
		Time:           shared.DayTime("08:00"),
		Active:         true,
		RecurrenceDays: []time.Weekday{time.Monday},
	}
	remRepo := newMemReminderRepo(rem)
	notifRepo := &memNotifRepo{}

	job := NewReminderWatchJob(remRepo, notifRepo, nil, clock.NewStub(tick), nil)

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, notifRepo.notifications)
}

func TestReminderWatchJob_SweepsExpiredOneTime(t *testing.T) {
	rem := schedule.Reminder{
		ID:       "r1",
		Label:    "Renew library card",
		Time:     shared.DayTime("10:00"),
		Active:   true,
		FireDate: shared.CalendarDay("2026-03-10"),
	}
	remRepo := newMemReminderRepo(rem)
	notifRepo := &memNotifRepo{}

	job := NewReminderWatchJob(remRepo, notifRepo, nil, clock.NewStub(tick), nil)

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, notifRepo.notifications)

	stored := remRepo.reminders["r1"]
	assert.False(t, stored.Active)
}

// ══════════════════════════════════════════════════════════════════════════════
// RETENTION SCAN
// ══════════════════════════════════════════════════════════════════════════════

func TestRetentionScanJob_WarnsOncePerDay(t *testing.T) {
	// 13 idle days puts retention at 35, below the default floor of 40.
	s := subject.Subject{
		ID:              "s1",
		Name:            "Pharmacology",
		Priority:        subject.PriorityHigh,
		TopicsTotal:     40,
		TopicsCompleted: 10,
		LastStudiedAt:   tick.AddDate(0, 0, -13),
	}
	subjectRepo := newMemSubjectRepo(s)
	notifRepo := &memNotifRepo{}
	publisher := &capturingPublisher{}
	clk := clock.NewStub(tick)

	job := NewRetentionScanJob(subjectRepo, notifRepo, publisher, clk, nil, subject.CriticalThreshold)

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, notifRepo.notifications, 1)
	assert.Contains(t, notifRepo.notifications[0].Message, "Pharmacology")
	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventRetentionCritical, publisher.events[0].EventType())

	// Second sweep the same day is silent.
	clk.Advance(time.Hour)
	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, notifRepo.notifications, 1)

	// Next day it nags again.
	clk.Set(tick.AddDate(0, 0, 1))
	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, notifRepo.notifications, 2)
}

func TestRetentionScanJob_SkipsHealthyAndUnstarted(t *testing.T) {
	healthy := subject.Subject{
		ID:              "s1",
		Name:            "Anatomy",
		Priority:        subject.PriorityMedium,
		TopicsTotal:     30,
		TopicsCompleted: 12,
		LastStudiedAt:   tick.AddDate(0, 0, -2),
	}
	unstarted := subject.Subject{
		ID:          "s2",
		Name:        "Biochemistry",
		Priority:    subject.PriorityLow,
		TopicsTotal: 25,
	}
	subjectRepo := newMemSubjectRepo(healthy, unstarted)
	notifRepo := &memNotifRepo{}

	job := NewRetentionScanJob(subjectRepo, notifRepo, nil, clock.NewStub(tick), nil, subject.CriticalThreshold)

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, notifRepo.notifications)
}

// ══════════════════════════════════════════════════════════════════════════════
// DAILY BRIEFING
// ══════════════════════════════════════════════════════════════════════════════

func TestDailyBriefingJob_DeliversNotification(t *testing.T) {
	p := profile.New()
	p.Level = 7
	p.Streak = 3

	s := subject.Subject{
		ID:              "s1",
		Name:            "Cardiology",
		Priority:        subject.PriorityHigh,
		TopicsTotal:     20,
		TopicsCompleted: 5,
		LastStudiedAt:   tick.AddDate(0, 0, -4),
	}

	profileRepo := &memProfileRepo{p: p}
	subjectRepo := newMemSubjectRepo(s)
	notifRepo := &memNotifRepo{}
	composer := &stubComposer{text: "Good morning, Sir."}

	job := NewDailyBriefingJob(profileRepo, subjectRepo, notifRepo, composer, nil, clock.NewStub(tick), nil)

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, notifRepo.notifications, 1)
	assert.Equal(t, "Good morning, Sir.", notifRepo.notifications[0].Message)
	assert.Equal(t, notification.CategoryGeneral, notifRepo.notifications[0].Category)

	assert.Equal(t, 7, composer.last.Level)
	require.Len(t, composer.last.Subjects, 1)
	assert.Equal(t, "Cardiology", composer.last.Subjects[0].Name)
	assert.Equal(t, 80, composer.last.Subjects[0].Retention)
}

func TestDailyBriefingJob_PropagatesComposerError(t *testing.T) {
	profileRepo := &memProfileRepo{p: profile.New()}
	subjectRepo := newMemSubjectRepo()
	notifRepo := &memNotifRepo{}
	composer := &stubComposer{err: errors.New("composer down")}

	job := NewDailyBriefingJob(profileRepo, subjectRepo, notifRepo, composer, nil, clock.NewStub(tick), nil)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, notifRepo.notifications)
}

type memBriefingCache struct {
	text string
	ttl  time.Duration
	set  bool
}

func (c *memBriefingCache) GetBriefing(context.Context) (string, error) {
	if !c.set {
		return "", errors.New("cache miss")
	}
	return c.text, nil
}

func (c *memBriefingCache) SetBriefing(_ context.Context, text string, ttl time.Duration) error {
	c.text = text
	c.ttl = ttl
	c.set = true
	return nil
}

func TestDailyBriefingJob_CachesBriefingUntilMidnight(t *testing.T) {
	profileRepo := &memProfileRepo{p: profile.New()}
	subjectRepo := newMemSubjectRepo()
	notifRepo := &memNotifRepo{}
	composer := &stubComposer{text: "Good morning, Sir."}
	cache := &memBriefingCache{}

	job := NewDailyBriefingJob(profileRepo, subjectRepo, notifRepo, composer, cache, clock.NewStub(tick), nil)

	require.NoError(t, job.Run(context.Background()))
	require.True(t, cache.set)
	assert.Equal(t, "Good morning, Sir.", cache.text)

	// tick is 08:00:17, so the guard must live until local midnight.
	wantTTL := time.Date(tick.Year(), tick.Month(), tick.Day()+1, 0, 0, 0, 0, tick.Location()).Sub(tick)
	assert.Equal(t, wantTTL, cache.ttl)
}

func TestDailyBriefingJob_SkipsWhenAlreadyDelivered(t *testing.T) {
	profileRepo := &memProfileRepo{p: profile.New()}
	subjectRepo := newMemSubjectRepo()
	notifRepo := &memNotifRepo{}
	composer := &stubComposer{text: "Good morning, Sir."}
	cache := &memBriefingCache{text: "Good morning, Sir.", set: true}

	job := NewDailyBriefingJob(profileRepo, subjectRepo, notifRepo, composer, cache, clock.NewStub(tick), nil)

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, notifRepo.notifications)
	assert.Zero(t, composer.calls)
}
