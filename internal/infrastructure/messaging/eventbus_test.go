package messaging

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

func newSyncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(Config{AsyncMode: false})
}

func TestInMemoryEventBus_DeliversToTypeSubscriber(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var received []shared.Event
	err := bus.Subscribe(shared.EventExperienceGained, func(e shared.Event) error {
		received = append(received, e)
		return nil
	})
	require.NoError(t, err)

	event := shared.NewExperienceGainedEvent("profile-1", 150, 3, "quest")
	require.NoError(t, bus.Publish(event))

	require.Len(t, received, 1)
	assert.Equal(t, shared.EventExperienceGained, received[0].EventType())
}

func TestInMemoryEventBus_TypeFilteringIsExact(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var hits int
	require.NoError(t, bus.Subscribe(shared.EventScheduleDue, func(shared.Event) error {
		hits++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewReminderDueEvent("r1", "alarm", true, "2026-03-14")))
	assert.Zero(t, hits)

	require.NoError(t, bus.Publish(shared.NewScheduleDueEvent("e1", "Anatomy", "study", "2026-03-14")))
	assert.Equal(t, 1, hits)
}

func TestInMemoryEventBus_SubscribeAllSeesEverything(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var seen []shared.EventType
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		seen = append(seen, e.EventType())
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewStreakUpdatedEvent("profile-1", 5, 8, false)))
	require.NoError(t, bus.Publish(shared.NewRetentionCriticalEvent("s1", "Pharmacology", 35, 13)))

	assert.Equal(t, []shared.EventType{shared.EventStreakUpdated, shared.EventRetentionCritical}, seen)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var secondCalled bool
	require.NoError(t, bus.Subscribe(shared.EventMilestoneReached, func(shared.Event) error {
		return errors.New("first handler failed")
	}))
	require.NoError(t, bus.Subscribe(shared.EventMilestoneReached, func(shared.Event) error {
		secondCalled = true
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewMilestoneReachedEvent("profile-1", 10, []string{"Iron Vanguard"})))
	assert.True(t, secondCalled)

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalFailures)
	assert.Equal(t, int64(2), snap.TotalExecutions)
}

func TestInMemoryEventBus_AsyncDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(Config{AsyncMode: true, WorkerPoolSize: 4})

	var mu sync.Mutex
	var count int
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	for i := 0; i < 20; i++ {
		require.NoError(t, bus.Publish(shared.NewExperienceGainedEvent("profile-1", 100, 2, "duty")))
	}

	// Close waits for all in-flight handlers.
	require.NoError(t, bus.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 20, count)
}

func TestInMemoryEventBus_ClosedBusRejectsPublish(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewScheduleDueEvent("e1", "Anatomy", "study", "2026-03-14"))
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestInMemoryEventBus_NilHandlerRejected(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	assert.Error(t, bus.Subscribe(shared.EventScheduleDue, nil))
	assert.Error(t, bus.SubscribeAll(nil))
}
