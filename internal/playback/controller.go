package playback

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kfstorm/soundbreak/internal/logging"
	"github.com/kfstorm/soundbreak/internal/shell"
	"github.com/kfstorm/soundbreak/internal/shared/types"
)

// Controller issues play/pause commands through an ordered fallback chain:
// direct per-player control first, a generic media-key press as a last
// resort. No assumption is made about which application owns playback.
type Controller struct {
	runner shell.Runner
	log    *logging.Logger
}

// NewController creates a playback controller.
func NewController(runner shell.Runner, log *logging.Logger) *Controller {
	return &Controller{runner: runner, log: log}
}

// Send executes the action best-effort. On success it returns a
// human-readable outcome ("Paused: Spotify", "Used media key fallback");
// when every stage fails it returns an error naming each failed stage.
func (c *Controller) Send(ctx context.Context, action types.Action) (string, error) {
	if !action.Valid() {
		return "", fmt.Errorf("unsupported playback action %q", action)
	}

	var failures []string

	out, err := c.direct(ctx, action)
	if err == nil && out != "" {
		return out, nil
	}
	if err != nil {
		failures = append(failures, fmt.Sprintf("direct control: %v", err))
	} else {
		failures = append(failures, "direct control: no player accepted the command")
	}
	c.log.Debug("direct playback control failed, trying media key",
		zap.String("action", string(action)),
	)

	out, err = osascript(ctx, c.runner, mediaKeyScript)
	if err == nil {
		return strings.TrimSpace(out), nil
	}
	failures = append(failures, fmt.Sprintf("media key: %v", err))

	return "", fmt.Errorf("playback %s failed: %s", action, strings.Join(failures, "; "))
}

// direct drives the known players by script. An empty result means no
// running player was in a state the action applies to.
func (c *Controller) direct(ctx context.Context, action types.Action) (string, error) {
	script := playScript
	if action == types.ActionPause {
		script = pauseScript
	}
	out, err := osascript(ctx, c.runner, script)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
