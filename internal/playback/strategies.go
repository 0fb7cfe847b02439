package playback

import (
	"context"
	"strings"

	"github.com/kfstorm/soundbreak/internal/shell"
)

// NowPlayingStrategy queries the media sessions of known players through
// AppleScript. It is the authoritative signal: a clean "true" or "false"
// answer ends the probe chain.
type NowPlayingStrategy struct {
	runner shell.Runner
}

// NewNowPlayingStrategy creates the media-session strategy.
func NewNowPlayingStrategy(runner shell.Runner) *NowPlayingStrategy {
	return &NowPlayingStrategy{runner: runner}
}

// Name identifies the strategy in logs and metrics.
func (s *NowPlayingStrategy) Name() string { return "now-playing" }

// Probe runs the now-playing script. Output is "isPlaying|player|track";
// a script error or unparseable output is unknown, never a failure.
func (s *NowPlayingStrategy) Probe(ctx context.Context) (State, Detail) {
	out, err := osascript(ctx, s.runner, nowPlayingScript)
	if err != nil {
		return StateUnknown, Detail{}
	}

	parts := strings.SplitN(strings.TrimSpace(out), "|", 3)
	if len(parts) < 3 {
		return StateUnknown, Detail{}
	}

	switch parts[0] {
	case "true":
		return StatePlaying, Detail{Player: parts[1], Track: parts[2]}
	case "false":
		return StateNotPlaying, Detail{}
	default:
		return StateUnknown, Detail{}
	}
}

// AssertionStrategy inspects macOS power assertions for evidence that
// coreaudiod is keeping the system awake on behalf of audio playback.
//
// It is corroborating evidence only: a matching assertion means something is
// playing, but the absence of one proves nothing (short sounds do not always
// hold an assertion), so the negative answer stays unknown.
type AssertionStrategy struct {
	runner shell.Runner
}

// NewAssertionStrategy creates the power-assertion strategy.
func NewAssertionStrategy(runner shell.Runner) *AssertionStrategy {
	return &AssertionStrategy{runner: runner}
}

// Name identifies the strategy in logs and metrics.
func (s *AssertionStrategy) Name() string { return "power-assertion" }

// Probe scans `pmset -g assertions` output for an audio-related sleep
// assertion held by coreaudiod.
func (s *AssertionStrategy) Probe(ctx context.Context) (State, Detail) {
	out, err := s.runner.Run(ctx, "pmset", "-g", "assertions")
	if err != nil {
		return StateUnknown, Detail{}
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "PreventUserIdleSystemSleep") {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "coreaudiod") || strings.Contains(lower, "audio") {
			return StatePlaying, Detail{}
		}
	}
	return StateUnknown, Detail{}
}
