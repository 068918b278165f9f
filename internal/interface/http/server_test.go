package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyrus-os/study-hub/internal/application/command"
	"github.com/shyrus-os/study-hub/internal/application/query"
	"github.com/shyrus-os/study-hub/internal/domain/notification"
	"github.com/shyrus-os/study-hub/internal/domain/profile"
	"github.com/shyrus-os/study-hub/internal/domain/schedule"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
	"github.com/shyrus-os/study-hub/internal/domain/subject"
	"github.com/shyrus-os/study-hub/pkg/clock"
)

var tick = time.Date(2026, 3, 14, 8, 0, 17, 0, time.UTC)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// ══════════════════════════════════════════════════════════════════════════════

type memProfileRepo struct {
	p        profile.Profile
	dutyMode bool
	duty     shared.DaySet
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{p: profile.New(), duty: shared.NewDaySet()}
}

func (m *memProfileRepo) Get(context.Context) (profile.Profile, error) { return m.p, nil }
func (m *memProfileRepo) Save(_ context.Context, p profile.Profile) error {
	m.p = p
	return nil
}
func (m *memProfileRepo) DutyDates(context.Context) (shared.DaySet, error) { return m.duty, nil }
func (m *memProfileRepo) AddDutyDate(_ context.Context, d shared.CalendarDay) error {
	m.duty.Add(d)
	return nil
}
func (m *memProfileRepo) RemoveDutyDate(_ context.Context, d shared.CalendarDay) error {
	m.duty.Remove(d)
	return nil
}
func (m *memProfileRepo) DutyMode(context.Context) (bool, error) { return m.dutyMode, nil }
func (m *memProfileRepo) SetDutyMode(_ context.Context, on bool) error {
	m.dutyMode = on
	return nil
}

type memSubjectRepo struct {
	subjects map[string]subject.Subject
}

func newMemSubjectRepo() *memSubjectRepo {
	return &memSubjectRepo{subjects: make(map[string]subject.Subject)}
}

func (m *memSubjectRepo) List(context.Context) ([]subject.Subject, error) {
	var out []subject.Subject
	for _, s := range m.subjects {
		out = append(out, s)
	}
	return out, nil
}

func (m *memSubjectRepo) FindByID(_ context.Context, id string) (subject.Subject, error) {
	s, ok := m.subjects[id]
	if !ok {
		return subject.Subject{}, shared.ErrSubjectNotFound
	}
	return s, nil
}

func (m *memSubjectRepo) Save(_ context.Context, s subject.Subject) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.subjects[s.ID] = s
	return nil
}

func (m *memSubjectRepo) LastWarnedOn(context.Context, string) (shared.CalendarDay, error) {
	return "", nil
}

func (m *memSubjectRepo) MarkWarned(context.Context, string, shared.CalendarDay) error {
	return nil
}

type memEntryRepo struct {
	entries map[string]schedule.Entry
}

func newMemEntryRepo() *memEntryRepo { return &memEntryRepo{entries: make(map[string]schedule.Entry)} }

func (m *memEntryRepo) List(context.Context) ([]schedule.Entry, error) {
	var out []schedule.Entry
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *memEntryRepo) Save(_ context.Context, e schedule.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	m.entries[e.ID] = e
	return nil
}

func (m *memEntryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return shared.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

type memReminderRepo struct {
	reminders map[string]schedule.Reminder
}

func newMemReminderRepo() *memReminderRepo {
	return &memReminderRepo{reminders: make(map[string]schedule.Reminder)}
}

func (m *memReminderRepo) List(context.Context) ([]schedule.Reminder, error) {
	var out []schedule.Reminder
	for _, r := range m.reminders {
		out = append(out, r)
	}
	return out, nil
}

func (m *memReminderRepo) Save(_ context.Context, r schedule.Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}
	m.reminders[r.ID] = r
	return nil
}

func (m *memReminderRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.reminders[id]; !ok {
		return shared.ErrReminderNotFound
	}
	delete(m.reminders, id)
	return nil
}

type memNotifRepo struct {
	notifications []notification.Notification
}

func (m *memNotifRepo) List(context.Context) ([]notification.Notification, error) {
	return m.notifications, nil
}

func (m *memNotifRepo) Append(_ context.Context, n notification.Notification) error {
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *memNotifRepo) Dismiss(_ context.Context, id string) error {
	for i, n := range m.notifications {
		if n.ID == id {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotificationNotFound
}

func (m *memNotifRepo) MarkRead(_ context.Context, id string) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Read = true
			return nil
		}
	}
	return shared.ErrNotificationNotFound
}

// ══════════════════════════════════════════════════════════════════════════════
// TEST HARNESS
// ══════════════════════════════════════════════════════════════════════════════

type testEnv struct {
	server   *Server
	profiles *memProfileRepo
	subjects *memSubjectRepo
	entries  *memEntryRepo
	notifs   *memNotifRepo
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	profiles := newMemProfileRepo()
	subjects := newMemSubjectRepo()
	entries := newMemEntryRepo()
	reminders := newMemReminderRepo()
	notifs := &memNotifRepo{}
	clk := clock.NewStub(tick)

	gain := command.NewGainExperienceHandler(profiles, nil, nil, clk)

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	server := NewServer(cfg, Dependencies{
		GainExperienceHandler:   gain,
		LogRevisionHandler:      command.NewLogRevisionHandler(subjects, gain, nil, clk.Now),
		ManageDutyHandler:       command.NewManageDutyHandler(profiles, nil),
		GetProgressHandler:      query.NewGetProgressHandler(profiles, nil, clk),
		GetRevisionQueueHandler: query.NewGetRevisionQueueHandler(subjects, clk, nil),
		SubjectRepo:             subjects,
		EntryRepo:               entries,
		ReminderRepo:            reminders,
		NotificationRepo:        notifs,
		Clock:                   clk,
	})

	return &testEnv{server: server, profiles: profiles, subjects: subjects, entries: entries, notifs: notifs}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	env.server.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()

	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, dest))
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestGetProgress_FreshLedger(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodGet, "/api/v1/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view query.ProgressView
	decodeData(t, rec, &view)
	assert.Equal(t, 1, view.Level)
	assert.Equal(t, 1000, view.ExperienceToNextLevel)
	assert.NotNil(t, view.Medals)
}

func TestCompleteDutyTask_CreditsXP(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/actions/duty-task", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]interface{}
	decodeData(t, rec, &result)
	assert.Equal(t, float64(100), result["experience"])
	assert.Equal(t, float64(1), result["streak"])
}

func TestGainExperience_RejectsNegative(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/actions/xp", map[string]interface{}{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubjects_CreateAndList(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/subjects", subjectPayload{
		Name:        "Pharmacology",
		Priority:    "high",
		TopicsTotal: 12,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created subjectView
	decodeData(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "high", created.Priority)

	rec = env.do(t, http.MethodGet, "/api/v1/subjects", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []subjectView
	decodeData(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Pharmacology", list[0].Name)
}

func TestSubjects_CreateRejectsEmptyName(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/subjects", subjectPayload{TopicsTotal: 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogRevision_ResetsRetention(t *testing.T) {
	env := newTestServer(t)
	env.subjects.subjects["s1"] = subject.Subject{
		ID:              "s1",
		Name:            "Anatomy",
		Priority:        subject.PriorityMedium,
		TopicsTotal:     10,
		TopicsCompleted: 3,
		LastStudiedAt:   tick.AddDate(0, 0, -10),
	}

	rec := env.do(t, http.MethodPost, "/api/v1/subjects/s1/revision", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]interface{}
	decodeData(t, rec, &result)
	assert.Equal(t, float64(100), result["retention"])
	assert.Equal(t, float64(command.XPRevision), result["xp_awarded"])
}

func TestLogRevision_UnknownSubjectIs404(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/subjects/ghost/revision", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScheduleEntry_CreateAndDelete(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/schedule", entryPayload{
		StartTime: "08:30",
		EndTime:   "10:00",
		Label:     "Ward rounds",
		Category:  "hospital",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created schedule.Entry
	decodeData(t, rec, &created)
	require.NotEmpty(t, created.ID)

	rec = env.do(t, http.MethodDelete, "/api/v1/schedule/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/schedule/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScheduleEntry_RejectsBadTime(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/schedule", entryPayload{
		StartTime: "8h30",
		EndTime:   "10:00",
		Label:     "Ward rounds",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReminder_OneTimeNeedsFireDate(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/reminders", reminderPayload{
		Label: "Take sample to lab",
		Time:  "14:00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/reminders", reminderPayload{
		Label:    "Take sample to lab",
		Time:     "14:00",
		FireDate: "2026-03-20",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestNotifications_DismissUnknownIs404(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/notifications/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotifications_MarkRead(t *testing.T) {
	env := newTestServer(t)
	n, err := notification.New(notification.CategoryGeneral, "Sir, your shift begins shortly.", tick)
	require.NoError(t, err)
	require.NoError(t, env.notifs.Append(context.Background(), n))

	rec := env.do(t, http.MethodPost, "/api/v1/notifications/"+n.ID+"/read", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.notifs.notifications[0].Read)
}

func TestDuty_ModeAndDates(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPut, "/api/v1/duty/mode", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.profiles.dutyMode)

	rec = env.do(t, http.MethodPost, "/api/v1/duty/dates/2026-03-21", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/duty/dates/21-03-2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/duty", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state map[string]interface{}
	decodeData(t, rec, &state)
	assert.Equal(t, true, state["duty_mode"])
}

func TestMentor_NotConfigured(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/mentor/ask", map[string]string{"question": "What is flumazenil?"})
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
