package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kfstorm/soundbreak/internal/logging"
)

// Ticker polls the coordinator on a fixed cadence so the status stays fresh
// and meeting edges are reacted to even when no client is asking.
type Ticker struct {
	coordinator *Coordinator
	interval    time.Duration
	log         *logging.Logger

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	started bool
}

// NewTicker creates a ticker with the given cadence.
func NewTicker(coordinator *Coordinator, interval time.Duration, log *logging.Logger) *Ticker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Ticker{
		coordinator: coordinator,
		interval:    interval,
		log:         log,
	}
}

// Start launches the polling loop. Calling Start twice is a no-op.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.stop, t.done)
	t.log.Info("status ticker started", zap.Duration("interval", t.interval))
}

// Stop terminates the polling loop and waits for it to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return
	}
	t.started = false
	stop, done := t.stop, t.done
	t.mu.Unlock()

	close(stop)
	<-done
	t.log.Info("status ticker stopped")
}

func (t *Ticker) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.coordinator.Status(context.Background())
		}
	}
}
