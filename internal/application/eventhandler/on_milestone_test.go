package eventhandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyrus-os/study-hub/internal/domain/notification"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

type memNotifRepo struct {
	appended []notification.Notification
}

func (m *memNotifRepo) List(context.Context) ([]notification.Notification, error) {
	return m.appended, nil
}

func (m *memNotifRepo) Append(_ context.Context, n notification.Notification) error {
	m.appended = append(m.appended, n)
	return nil
}

func (m *memNotifRepo) Dismiss(context.Context, string) error  { return nil }
func (m *memNotifRepo) MarkRead(context.Context, string) error { return nil }

func TestProgressionNotifier_AnnouncesMilestone(t *testing.T) {
	repo := &memNotifRepo{}
	n := NewProgressionNotifier(repo, nil)

	evt := shared.NewMilestoneReachedEvent("profile-1", 20, []string{"Iron Vanguard", "Steel Sentinel"})
	require.NoError(t, n.onMilestone(evt))

	require.Len(t, repo.appended, 1)
	assert.Equal(t, notification.CategoryGeneral, repo.appended[0].Category)
	assert.Equal(t, "Sir, level 20 reached. Medal awarded: Steel Sentinel.", repo.appended[0].Message)
}

func TestProgressionNotifier_AnnouncesStreakRecord(t *testing.T) {
	repo := &memNotifRepo{}
	n := NewProgressionNotifier(repo, nil)

	evt := shared.NewStreakUpdatedEvent("profile-1", 5, 5, false)
	require.NoError(t, n.onStreak(evt))

	require.Len(t, repo.appended, 1)
	assert.Equal(t, "Sir, a new record: 5 consecutive days of study.", repo.appended[0].Message)
}

func TestProgressionNotifier_StaysQuietBelowRecord(t *testing.T) {
	repo := &memNotifRepo{}
	n := NewProgressionNotifier(repo, nil)

	// Streak grows but the best streak is still ahead.
	require.NoError(t, n.onStreak(shared.NewStreakUpdatedEvent("profile-1", 3, 8, false)))

	// Exempt days freeze the streak, nothing to announce.
	require.NoError(t, n.onStreak(shared.NewStreakUpdatedEvent("profile-1", 4, 4, true)))

	// A single day is not a record worth the feed.
	require.NoError(t, n.onStreak(shared.NewStreakUpdatedEvent("profile-1", 1, 1, false)))

	assert.Empty(t, repo.appended)
}
