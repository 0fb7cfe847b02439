package detector

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/kfstorm/soundbreak/internal/logging"
	"github.com/kfstorm/soundbreak/internal/shell"
	"github.com/kfstorm/soundbreak/internal/shared/types"
)

// Detector checks the live process table for configured meeting processes.
type Detector struct {
	runner shell.Runner
	log    *logging.Logger
	clock  func() time.Time
}

// New creates a process presence detector.
func New(runner shell.Runner, log *logging.Logger) *Detector {
	return &Detector{
		runner: runner,
		log:    log,
		clock:  time.Now,
	}
}

// WithClock overrides the snapshot timestamp source, for tests.
func (d *Detector) WithClock(clock func() time.Time) *Detector {
	d.clock = clock
	return d
}

// Detect returns a snapshot of which configured process names are running.
// Exact, case-sensitive matching only: a pattern matches when the process
// name is identical, never on substrings. Query failures degrade to
// "not running" so a broken pgrep can never abort a detection cycle.
func (d *Detector) Detect(ctx context.Context, names []string) types.MeetingSnapshot {
	apps := make([]types.MonitoredApp, 0, len(names))
	inMeeting := false

	for _, name := range names {
		running := d.isRunning(ctx, name)
		apps = append(apps, types.MonitoredApp{
			Name:        name,
			ProcessName: name,
			IsRunning:   running,
		})
		if running {
			inMeeting = true
		}
	}

	return types.MeetingSnapshot{
		InMeeting:  inMeeting,
		Apps:       apps,
		CapturedAt: d.clock(),
	}
}

// isRunning queries pgrep with ^…$ anchors. QuoteMeta keeps names containing
// regex metacharacters (e.g. "Lark Helper (Iron)") literal.
func (d *Detector) isRunning(ctx context.Context, name string) bool {
	pattern := "^" + regexp.QuoteMeta(name) + "$"

	out, err := d.runner.Run(ctx, "pgrep", pattern)
	if err != nil {
		// pgrep exits 1 on no match; anything else is a degraded query.
		// Either way the answer is "not running".
		d.log.Debug("process query returned no match",
			zap.String("process", name),
			zap.Error(err),
		)
		return false
	}
	return len(out) > 0
}
