package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func failing(ctx context.Context) error { return errUpstream }
func passing(ctx context.Context) error { return nil }

func testBreaker(timeout time.Duration) *CircuitBreaker {
	return New(Config{
		Name:                "test",
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             timeout,
		MaxHalfOpenRequests: 1,
	})
}

func TestExecute_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := testBreaker(time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, failing), errUpstream)
	}
	assert.Equal(t, StateOpen, cb.State())

	// Open circuit short-circuits without calling the function.
	err := cb.Execute(ctx, func(ctx context.Context) error {
		t.Fatal("must not be called while open")
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestExecute_SuccessResetsFailureCount(t *testing.T) {
	cb := testBreaker(time.Hour)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))
	require.NoError(t, cb.Execute(ctx, passing))
	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))

	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_RecoversThroughHalfOpen(t *testing.T) {
	cb := testBreaker(time.Nanosecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(ctx, failing))
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(time.Millisecond)

	// Two successful probes close the circuit again.
	require.NoError(t, cb.Execute(ctx, passing))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(ctx, passing))
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_FailedProbeReopens(t *testing.T) {
	cb := testBreaker(time.Nanosecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(ctx, failing))
	}
	time.Sleep(time.Millisecond)

	require.Error(t, cb.Execute(ctx, failing))
	assert.Equal(t, StateOpen, cb.State())
}

func TestMentorAPIBreaker_ReportsTransitions(t *testing.T) {
	var transitions []string
	cb := MentorAPIBreaker(func(name string, from, to State) {
		transitions = append(transitions, from.String()+">"+to.String())
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(ctx, failing))
	}

	assert.Equal(t, []string{"closed>open"}, transitions)
}
