package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kfstorm/soundbreak/internal/shell"
)

// ErrCircuitOpen is returned while the breaker is rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures breaker behavior.
type Settings struct {
	// FailureThreshold is the consecutive-failure count that opens the circuit
	FailureThreshold uint32
	// Cooldown is the open-state period before a trial call is allowed
	Cooldown time.Duration
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from State, to State)
}

// Breaker trips after consecutive failures and rejects calls for a cooldown
// period. One trial call is admitted in half-open state; its outcome decides
// whether the circuit closes again.
type Breaker struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State
	failures uint32
	openedAt time.Time
	trial    bool
}

// New creates a breaker with the given settings.
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 3
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	return &Breaker{name: name, settings: settings, state: StateClosed}
}

// Name returns the breaker name.
func (b *Breaker) Name() string { return b.name }

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState(time.Now())
}

// Allow reports whether a call may proceed right now.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState(time.Now()) {
	case StateClosed:
		return true
	case StateHalfOpen:
		if b.trial {
			return false
		}
		b.trial = true
		return true
	default:
		return false
	}
}

// Record reports a call outcome to the breaker.
func (b *Breaker) Record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state := b.currentState(now)

	if success {
		b.failures = 0
		if state != StateClosed {
			b.setState(StateClosed, state)
		}
		return
	}

	switch state {
	case StateClosed:
		b.failures++
		if b.failures >= b.settings.FailureThreshold {
			b.openedAt = now
			b.setState(StateOpen, state)
		}
	case StateHalfOpen:
		b.openedAt = now
		b.setState(StateOpen, state)
	}
}

// currentState resolves open->half-open after the cooldown. Must hold mu.
func (b *Breaker) currentState(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.settings.Cooldown {
		b.setState(StateHalfOpen, StateOpen)
	}
	return b.state
}

// setState transitions state and fires the callback. Must hold mu.
func (b *Breaker) setState(next, prev State) {
	if next == prev {
		return
	}
	b.state = next
	b.trial = false
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, prev, next)
	}
}

// Runner decorates a shell.Runner with a circuit breaker so a wedged external
// tool is not re-invoked on every detection cycle.
type Runner struct {
	inner   shell.Runner
	breaker *Breaker
}

// NewRunner wraps the given runner with the breaker.
func NewRunner(inner shell.Runner, breaker *Breaker) *Runner {
	return &Runner{inner: inner, breaker: breaker}
}

// Run executes through the breaker. While the circuit is open it fails fast
// with ErrCircuitOpen; callers treat that like any other probe failure.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if !r.breaker.Allow() {
		return nil, ErrCircuitOpen
	}
	out, err := r.inner.Run(ctx, name, args...)
	r.breaker.Record(err == nil)
	return out, err
}
