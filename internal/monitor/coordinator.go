package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kfstorm/soundbreak/internal/logging"
	"github.com/kfstorm/soundbreak/internal/metrics"
	"github.com/kfstorm/soundbreak/internal/shared/types"
)

// Detector reports which configured meeting processes are present.
type Detector interface {
	Detect(ctx context.Context, names []string) types.MeetingSnapshot
}

// Probe reports whether audio is currently playing.
type Probe interface {
	Snapshot(ctx context.Context) types.PlaybackSnapshot
}

// Controller issues best-effort playback commands.
type Controller interface {
	Send(ctx context.Context, action types.Action) (string, error)
}

// Coordinator owns the canonical monitoring state and drives the
// detect-and-react cycle.
//
// A single mutex covers the whole read-modify-write of a cycle so two
// concurrent callers can never both observe the same meeting edge and both
// issue a command. The lock is coarse; OS queries are already rate-limited
// to at most one set per MinInterval, so contention stays negligible.
type Coordinator struct {
	detector   Detector
	probe      Probe
	controller Controller
	log        *logging.Logger
	metrics    *metrics.Metrics

	mu      sync.Mutex
	limiter *rate.Limiter
	clock   func() time.Time

	cfg                  types.MonitorConfig // Protected by mu
	active               bool                // Protected by mu
	wasInMeeting         bool                // Protected by mu
	playingBeforeMeeting bool                // Protected by mu; meaningful only while wasInMeeting
	status               types.MonitoringStatus
}

// Options configures a coordinator.
type Options struct {
	// MinInterval is the minimum spacing between OS query cycles.
	// Zero disables the gate (tests only).
	MinInterval time.Duration
	// Config is the initial monitored-process list.
	Config types.MonitorConfig
	// Metrics is optional.
	Metrics *metrics.Metrics
	// Clock overrides the time source, for tests.
	Clock func() time.Time
}

// NewCoordinator creates a coordinator in the stopped state.
func NewCoordinator(detector Detector, probe Probe, controller Controller, log *logging.Logger, opts Options) *Coordinator {
	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Coordinator{
		detector:   detector,
		probe:      probe,
		controller: controller,
		log:        log,
		metrics:    opts.Metrics,
		limiter:    rate.NewLimiter(limit, 1),
		clock:      clock,
		cfg:        opts.Config.Clone(),
	}
}

// Start begins monitoring. Idempotent: starting an active coordinator is a
// success with an informational message, never an error.
func (c *Coordinator) Start() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return "Monitoring is already running", nil
	}
	c.active = true
	c.setLastActionLocked("Monitoring started")
	c.status.IsActive = true
	c.status.LastCheckAt = c.clock()
	if c.metrics != nil {
		c.metrics.MonitoringActive.Set(1)
	}
	c.log.Info("monitoring started")
	return "Monitoring started successfully", nil
}

// Stop halts monitoring, freezing the last observed state. It never forces
// a resume. Idempotent like Start.
func (c *Coordinator) Stop() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return "Monitoring is not running", nil
	}
	c.active = false
	c.setLastActionLocked("Monitoring stopped")
	c.status.IsActive = false
	c.status.LastCheckAt = c.clock()
	if c.metrics != nil {
		c.metrics.MonitoringActive.Set(0)
	}
	c.log.Info("monitoring stopped")
	return "Monitoring stopped successfully", nil
}

// Toggle stops monitoring when active, starts it otherwise.
func (c *Coordinator) Toggle() (string, error) {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	if active {
		return c.Stop()
	}
	return c.Start()
}

// Active reports whether monitoring is running.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Check runs one detection cycle if monitoring is active and the rate gate
// is open. Probe and detector failures are absorbed inside those components;
// Check itself never fails.
func (c *Coordinator) Check(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkLocked(ctx)
}

// Status runs a cycle (subject to the rate gate) and returns a copy of the
// latest status. This is the primary driver of reactive behavior: liveness
// depends on something polling it, normally the Ticker.
func (c *Coordinator) Status(ctx context.Context) types.MonitoringStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkLocked(ctx)
	return c.status.Clone()
}

// LastStatus returns the current snapshot without triggering a cycle.
func (c *Coordinator) LastStatus() types.MonitoringStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status.Clone()
}

// Config returns a copy of the monitored-process configuration.
func (c *Coordinator) Config() types.MonitorConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Clone()
}

// UpdateConfig replaces the process-name list used by the next cycle.
// It never reevaluates the current snapshot retroactively.
func (c *Coordinator) UpdateConfig(cfg types.MonitorConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg.Clone()
	c.log.Info("monitor config updated", zap.Strings("process_names", c.cfg.ProcessNames))
}

// checkLocked is the detection-and-reaction cycle. Must hold mu.
func (c *Coordinator) checkLocked(ctx context.Context) {
	if !c.active {
		return
	}
	if !c.limiter.Allow() {
		return
	}

	now := c.clock()
	meeting := c.detector.Detect(ctx, c.cfg.ProcessNames)
	playbackSnapshot := c.probe.Snapshot(ctx)

	if c.metrics != nil {
		c.metrics.ChecksTotal.Inc()
		if meeting.InMeeting {
			c.metrics.InMeeting.Set(1)
		} else {
			c.metrics.InMeeting.Set(0)
		}
	}

	nowInMeeting := meeting.InMeeting
	switch {
	case nowInMeeting && !c.wasInMeeting:
		// Meeting-start edge: remember what playback looked like so the end
		// edge knows whether a resume is warranted at all.
		c.playingBeforeMeeting = playbackSnapshot.IsPlaying
		if playbackSnapshot.IsPlaying {
			c.dispatchLocked(ctx, types.ActionPause, "Meeting started")
		}
		c.wasInMeeting = true
		if c.metrics != nil {
			c.metrics.RecordTransition("start")
		}
		c.log.Info("meeting started",
			zap.Bool("music_was_playing", playbackSnapshot.IsPlaying),
		)

	case !nowInMeeting && c.wasInMeeting:
		// Meeting-end edge: resume only if we paused on the way in. The flag
		// resets regardless of command success; a failed resume is not retried.
		if c.playingBeforeMeeting {
			c.dispatchLocked(ctx, types.ActionPlay, "Meeting ended")
			c.playingBeforeMeeting = false
		}
		c.wasInMeeting = false
		if c.metrics != nil {
			c.metrics.RecordTransition("end")
		}
		c.log.Info("meeting ended")
	}

	c.status.Meeting = &meeting
	c.status.Playback = &playbackSnapshot
	c.status.LastCheckAt = now
}

// dispatchLocked sends a playback command and records the outcome as the
// last action. Command failure never aborts the cycle. Must hold mu.
func (c *Coordinator) dispatchLocked(ctx context.Context, action types.Action, prefix string) {
	outcome, err := c.controller.Send(ctx, action)
	if err != nil {
		c.setLastActionLocked(fmt.Sprintf("%s: %s command failed: %v", prefix, action, err))
		if c.metrics != nil {
			c.metrics.RecordCommand(string(action), "failure")
		}
		c.log.Warn("playback command failed",
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return
	}
	c.setLastActionLocked(fmt.Sprintf("%s: %s", prefix, outcome))
	if c.metrics != nil {
		c.metrics.RecordCommand(string(action), "success")
	}
	c.log.Info("playback command sent",
		zap.String("action", string(action)),
		zap.String("outcome", outcome),
	)
}

// setLastActionLocked stores the last action message. Must hold mu.
func (c *Coordinator) setLastActionLocked(message string) {
	c.status.LastAction = &message
}
