package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfstorm/soundbreak/internal/logging"
	"github.com/kfstorm/soundbreak/internal/shared/types"
)

type fakeDetector struct {
	mu        sync.Mutex
	inMeeting bool
	calls     int
	lastNames []string
}

func (d *fakeDetector) set(inMeeting bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inMeeting = inMeeting
}

func (d *fakeDetector) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *fakeDetector) Detect(ctx context.Context, names []string) types.MeetingSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.lastNames = append([]string(nil), names...)
	apps := make([]types.MonitoredApp, 0, len(names))
	for _, n := range names {
		apps = append(apps, types.MonitoredApp{Name: n, ProcessName: n, IsRunning: d.inMeeting})
	}
	return types.MeetingSnapshot{InMeeting: d.inMeeting, Apps: apps, CapturedAt: time.Now()}
}

type fakeProbe struct {
	mu      sync.Mutex
	playing bool
}

func (p *fakeProbe) set(playing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = playing
}

func (p *fakeProbe) Snapshot(ctx context.Context) types.PlaybackSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return types.PlaybackSnapshot{IsPlaying: p.playing, CapturedAt: time.Now()}
}

type fakeController struct {
	mu   sync.Mutex
	sent []types.Action
	err  error
}

func (c *fakeController) Send(ctx context.Context, action types.Action) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, action)
	if c.err != nil {
		return "", c.err
	}
	return "ok: " + string(action), nil
}

func (c *fakeController) actions() []types.Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Action(nil), c.sent...)
}

func newTestCoordinator(t *testing.T, det *fakeDetector, probe *fakeProbe, ctrl *fakeController, opts Options) *Coordinator {
	t.Helper()
	if opts.Config.ProcessNames == nil {
		opts.Config = types.MonitorConfig{ProcessNames: []string{"ZoomHelper"}}
	}
	return NewCoordinator(det, probe, ctrl, logging.NewNop(), opts)
}

func TestStartStopIdempotent(t *testing.T) {
	c := newTestCoordinator(t, &fakeDetector{}, &fakeProbe{}, &fakeController{}, Options{})

	msg, err := c.Start()
	require.NoError(t, err)
	assert.Equal(t, "Monitoring started successfully", msg)
	assert.True(t, c.Active())

	msg, err = c.Start()
	require.NoError(t, err)
	assert.Equal(t, "Monitoring is already running", msg)
	assert.True(t, c.Active())

	msg, err = c.Stop()
	require.NoError(t, err)
	assert.Equal(t, "Monitoring stopped successfully", msg)
	assert.False(t, c.Active())

	msg, err = c.Stop()
	require.NoError(t, err)
	assert.Equal(t, "Monitoring is not running", msg)
	assert.False(t, c.Active())
}

func TestToggleFoldsToXOR(t *testing.T) {
	c := newTestCoordinator(t, &fakeDetector{}, &fakeProbe{}, &fakeController{}, Options{})

	expected := false
	for i := 0; i < 7; i++ {
		_, err := c.Toggle()
		require.NoError(t, err)
		expected = !expected
		assert.Equal(t, expected, c.Active(), "after toggle %d", i+1)
	}
}

func TestMeetingStartPausesPlayingMusic(t *testing.T) {
	det := &fakeDetector{}
	probe := &fakeProbe{playing: true}
	ctrl := &fakeController{}
	c := newTestCoordinator(t, det, probe, ctrl, Options{})

	_, err := c.Start()
	require.NoError(t, err)

	ctx := context.Background()
	c.Check(ctx)
	assert.Empty(t, ctrl.actions(), "no edge yet, no command")

	det.set(true)
	c.Check(ctx)
	require.Equal(t, []types.Action{types.ActionPause}, ctrl.actions())

	status := c.LastStatus()
	require.NotNil(t, status.Meeting)
	assert.True(t, status.Meeting.InMeeting)
	require.NotNil(t, status.LastAction)
	assert.Contains(t, *status.LastAction, "Meeting started")
}

func TestMeetingEndResumesExactlyOnce(t *testing.T) {
	det := &fakeDetector{}
	probe := &fakeProbe{playing: true}
	ctrl := &fakeController{}
	c := newTestCoordinator(t, det, probe, ctrl, Options{})

	_, err := c.Start()
	require.NoError(t, err)
	ctx := context.Background()

	det.set(true)
	c.Check(ctx)
	probe.set(false) // music is paused now

	det.set(false)
	c.Check(ctx)
	require.Equal(t, []types.Action{types.ActionPause, types.ActionPlay}, ctrl.actions())

	// Further idle cycles must not resume again.
	c.Check(ctx)
	c.Check(ctx)
	assert.Len(t, ctrl.actions(), 2)

	status := c.LastStatus()
	require.NotNil(t, status.LastAction)
	assert.Contains(t, *status.LastAction, "Meeting ended")
}

func TestNoResumeWhenMusicWasAlreadyPaused(t *testing.T) {
	det := &fakeDetector{}
	probe := &fakeProbe{playing: false}
	ctrl := &fakeController{}
	c := newTestCoordinator(t, det, probe, ctrl, Options{})

	_, err := c.Start()
	require.NoError(t, err)
	ctx := context.Background()

	det.set(true)
	c.Check(ctx)
	det.set(false)
	c.Check(ctx)

	assert.Empty(t, ctrl.actions(), "user-paused music must never be force-resumed")
}

func TestFlagResetsEvenWhenResumeFails(t *testing.T) {
	det := &fakeDetector{}
	probe := &fakeProbe{playing: true}
	ctrl := &fakeController{err: errors.New("osascript exploded")}
	c := newTestCoordinator(t, det, probe, ctrl, Options{})

	_, err := c.Start()
	require.NoError(t, err)
	ctx := context.Background()

	det.set(true)
	c.Check(ctx)
	det.set(false)
	c.Check(ctx)
	require.Len(t, ctrl.actions(), 2)

	// A failed resume is not retried: re-entering and leaving a meeting with
	// music stopped must not issue anything further.
	probe.set(false)
	det.set(true)
	c.Check(ctx)
	det.set(false)
	c.Check(ctx)
	assert.Len(t, ctrl.actions(), 2)

	status := c.LastStatus()
	require.NotNil(t, status.LastAction)
	assert.Contains(t, *status.LastAction, "command failed")
}

func TestCommandFailureDoesNotAbortCycle(t *testing.T) {
	det := &fakeDetector{}
	probe := &fakeProbe{playing: true}
	ctrl := &fakeController{err: errors.New("no media session")}
	c := newTestCoordinator(t, det, probe, ctrl, Options{})

	_, err := c.Start()
	require.NoError(t, err)
	ctx := context.Background()

	det.set(true)
	c.Check(ctx)

	// The cycle completed despite the failed pause: snapshots are fresh and
	// the meeting-start edge was consumed.
	status := c.LastStatus()
	require.NotNil(t, status.Meeting)
	assert.True(t, status.Meeting.InMeeting)

	c.Check(ctx)
	assert.Len(t, ctrl.actions(), 1, "edge must be consumed even on command failure")
}

func TestStoppedCoordinatorRunsNoQueries(t *testing.T) {
	det := &fakeDetector{}
	c := newTestCoordinator(t, det, &fakeProbe{}, &fakeController{}, Options{})

	c.Check(context.Background())
	c.Status(context.Background())
	assert.Zero(t, det.callCount())
}

func TestStopFreezesStateWithoutResume(t *testing.T) {
	det := &fakeDetector{}
	probe := &fakeProbe{playing: true}
	ctrl := &fakeController{}
	c := newTestCoordinator(t, det, probe, ctrl, Options{})

	_, err := c.Start()
	require.NoError(t, err)
	ctx := context.Background()

	det.set(true)
	c.Check(ctx)
	require.Equal(t, []types.Action{types.ActionPause}, ctrl.actions())

	_, err = c.Stop()
	require.NoError(t, err)
	det.set(false)
	c.Check(ctx)
	c.Status(ctx)

	assert.Equal(t, []types.Action{types.ActionPause}, ctrl.actions(),
		"stop must freeze state, not force a resume")
}

func TestRateLimiterBoundsQueries(t *testing.T) {
	det := &fakeDetector{}
	c := newTestCoordinator(t, det, &fakeProbe{}, &fakeController{}, Options{
		MinInterval: 500 * time.Millisecond,
	})

	_, err := c.Start()
	require.NoError(t, err)
	ctx := context.Background()

	c.Check(ctx)
	c.Check(ctx)
	c.Status(ctx)
	assert.Equal(t, 1, det.callCount(), "checks within MinInterval must not re-query the OS")

	time.Sleep(600 * time.Millisecond)
	c.Check(ctx)
	assert.Equal(t, 2, det.callCount())
}

func TestConfigUpdateTakesEffectNextCycle(t *testing.T) {
	det := &fakeDetector{}
	c := newTestCoordinator(t, det, &fakeProbe{}, &fakeController{}, Options{
		Config: types.MonitorConfig{ProcessNames: []string{"zoom.us"}},
	})

	_, err := c.Start()
	require.NoError(t, err)
	ctx := context.Background()

	c.Check(ctx)
	assert.Equal(t, []string{"zoom.us"}, det.lastNames)

	c.UpdateConfig(types.MonitorConfig{ProcessNames: []string{"Microsoft Teams"}})
	assert.Equal(t, []string{"zoom.us"}, det.lastNames, "update must not reevaluate retroactively")

	c.Check(ctx)
	assert.Equal(t, []string{"Microsoft Teams"}, det.lastNames)
}

func TestConfigReturnsIndependentCopy(t *testing.T) {
	c := newTestCoordinator(t, &fakeDetector{}, &fakeProbe{}, &fakeController{}, Options{
		Config: types.MonitorConfig{ProcessNames: []string{"zoom.us"}},
	})

	cfg := c.Config()
	cfg.ProcessNames[0] = "mutated"
	assert.Equal(t, []string{"zoom.us"}, c.Config().ProcessNames)
}

func TestConcurrentStatusIssuesOneCommandPerEdge(t *testing.T) {
	det := &fakeDetector{}
	probe := &fakeProbe{playing: true}
	ctrl := &fakeController{}
	c := newTestCoordinator(t, det, probe, ctrl, Options{})

	_, err := c.Start()
	require.NoError(t, err)
	c.Check(context.Background()) // consume the idle baseline

	det.set(true)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Status(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, []types.Action{types.ActionPause}, ctrl.actions(),
		"concurrent pollers must not double-issue the pause")
}

func TestScenarioZoomHelperLifecycle(t *testing.T) {
	det := &fakeDetector{}
	probe := &fakeProbe{playing: true}
	ctrl := &fakeController{}
	c := newTestCoordinator(t, det, probe, ctrl, Options{
		Config: types.MonitorConfig{ProcessNames: []string{"ZoomHelper"}},
	})
	ctx := context.Background()

	assert.False(t, c.Active())
	msg, err := c.Start()
	require.NoError(t, err)
	assert.Equal(t, "Monitoring started successfully", msg)
	assert.True(t, c.Active())

	// ZoomHelper absent, playback true: no action.
	status := c.Status(ctx)
	require.NotNil(t, status.Meeting)
	assert.False(t, status.Meeting.InMeeting)
	assert.Empty(t, ctrl.actions())

	// ZoomHelper appears: pause issued.
	det.set(true)
	status = c.Status(ctx)
	assert.True(t, status.Meeting.InMeeting)
	assert.Equal(t, []types.Action{types.ActionPause}, ctrl.actions())

	// ZoomHelper disappears: resume issued, flag reset.
	det.set(false)
	status = c.Status(ctx)
	assert.False(t, status.Meeting.InMeeting)
	assert.Equal(t, []types.Action{types.ActionPause, types.ActionPlay}, ctrl.actions())

	// Nothing further on subsequent idle cycles.
	c.Status(ctx)
	assert.Len(t, ctrl.actions(), 2)
}
