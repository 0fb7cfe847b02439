package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		settings      Settings
		outcomes      []bool // true = success, false = failure
		expectedState State
	}{
		{
			name:          "stays closed on successes",
			settings:      Settings{FailureThreshold: 3, Cooldown: time.Minute},
			outcomes:      []bool{true, true, true},
			expectedState: StateClosed,
		},
		{
			name:          "opens after consecutive failures",
			settings:      Settings{FailureThreshold: 3, Cooldown: time.Minute},
			outcomes:      []bool{false, false, false},
			expectedState: StateOpen,
		},
		{
			name:          "success resets the failure streak",
			settings:      Settings{FailureThreshold: 3, Cooldown: time.Minute},
			outcomes:      []bool{false, false, true, false, false},
			expectedState: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("test", tt.settings)
			for _, ok := range tt.outcomes {
				if b.Allow() {
					b.Record(ok)
				}
			}
			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	b := New("test", Settings{FailureThreshold: 1, Cooldown: time.Minute})
	require.True(t, b.Allow())
	b.Record(false)

	assert.False(t, b.Allow())
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerHalfOpenTrial(t *testing.T) {
	b := New("test", Settings{FailureThreshold: 1, Cooldown: 10 * time.Millisecond})
	require.True(t, b.Allow())
	b.Record(false)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	// Only one trial call is admitted.
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())

	b.Record(true)
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerFailedTrialReopens(t *testing.T) {
	b := New("test", Settings{FailureThreshold: 1, Cooldown: 10 * time.Millisecond})
	require.True(t, b.Allow())
	b.Record(false)

	time.Sleep(20 * time.Millisecond)
	require.True(t, b.Allow())
	b.Record(false)

	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestBreakerStateChangeCallback(t *testing.T) {
	var transitions []string
	b := New("osascript", Settings{
		FailureThreshold: 1,
		Cooldown:         time.Minute,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	require.True(t, b.Allow())
	b.Record(false)
	assert.Equal(t, []string{"closed->open"}, transitions)
}

type countingRunner struct {
	calls int
	err   error
}

func (r *countingRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("ok"), nil
}

func TestRunnerFailsFastWhileOpen(t *testing.T) {
	inner := &countingRunner{err: errors.New("tool wedged")}
	r := NewRunner(inner, New("test", Settings{FailureThreshold: 2, Cooldown: time.Minute}))
	ctx := context.Background()

	_, err := r.Run(ctx, "osascript", "-e", "x")
	require.Error(t, err)
	_, err = r.Run(ctx, "osascript", "-e", "x")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)

	// Circuit is open now: the tool is not touched again.
	_, err = r.Run(ctx, "osascript", "-e", "x")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, inner.calls)
}

func TestRunnerPassesThroughWhenClosed(t *testing.T) {
	inner := &countingRunner{}
	r := NewRunner(inner, New("test", Settings{}))

	out, err := r.Run(context.Background(), "pmset", "-g", "assertions")
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), out)
}
