package playback

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kfstorm/soundbreak/internal/logging"
	"github.com/kfstorm/soundbreak/internal/shared/types"
)

// State is the tri-state answer of a single probe strategy.
type State int

const (
	StateUnknown State = iota
	StateNotPlaying
	StatePlaying
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateNotPlaying:
		return "not-playing"
	default:
		return "unknown"
	}
}

// Strategy is one way of answering "is audio playing". Strategies never
// return errors; anything inconclusive is StateUnknown.
type Strategy interface {
	Name() string
	Probe(ctx context.Context) (State, Detail)
}

// Detail carries optional media-session metadata alongside a strategy answer.
type Detail struct {
	Player string
	Track  string
}

// Probe answers "is audio playing" by running strategies in ranked order.
//
// The most authoritative signal runs first; a definitive answer (playing or
// not-playing) stops the chain, while unknown falls through to the next
// strategy. An exhausted chain collapses to not-playing: failing to pause is
// recoverable, force-resuming music the user had paused is not.
type Probe struct {
	strategies []Strategy
	log        *logging.Logger
	clock      func() time.Time
	observer   func(strategy string, state State)
}

// NewProbe creates a probe over the given strategy chain.
func NewProbe(log *logging.Logger, strategies ...Strategy) *Probe {
	return &Probe{
		strategies: strategies,
		log:        log,
		clock:      time.Now,
	}
}

// WithClock overrides the snapshot timestamp source, for tests.
func (p *Probe) WithClock(clock func() time.Time) *Probe {
	p.clock = clock
	return p
}

// WithObserver registers a callback invoked with every strategy outcome.
func (p *Probe) WithObserver(fn func(strategy string, state State)) *Probe {
	p.observer = fn
	return p
}

// Snapshot runs the strategy chain and returns a playback snapshot.
// It never errors: unknown is collapsed to not-playing at this level only.
func (p *Probe) Snapshot(ctx context.Context) types.PlaybackSnapshot {
	now := p.clock()

	for _, s := range p.strategies {
		state, detail := s.Probe(ctx)
		if p.observer != nil {
			p.observer(s.Name(), state)
		}
		switch state {
		case StatePlaying:
			return types.PlaybackSnapshot{
				IsPlaying:  true,
				Player:     detail.Player,
				Track:      detail.Track,
				CapturedAt: now,
			}
		case StateNotPlaying:
			return types.PlaybackSnapshot{IsPlaying: false, CapturedAt: now}
		default:
			p.log.Debug("playback strategy inconclusive", zap.String("strategy", s.Name()))
		}
	}

	return types.PlaybackSnapshot{IsPlaying: false, CapturedAt: now}
}
