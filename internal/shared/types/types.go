package types

import "time"

// Action is a playback command direction
type Action string

const (
	ActionPlay  Action = "play"
	ActionPause Action = "pause"
)

// Valid reports whether the action is one of the supported commands
func (a Action) Valid() bool {
	return a == ActionPlay || a == ActionPause
}

// MonitoredApp is the presence result for a single configured process name
type MonitoredApp struct {
	Name        string `json:"name"`
	ProcessName string `json:"process_name"`
	IsRunning   bool   `json:"is_running"`
}

// MeetingSnapshot is the result of one detection pass over the process table
type MeetingSnapshot struct {
	InMeeting  bool           `json:"in_meeting"`
	Apps       []MonitoredApp `json:"active_apps"`
	CapturedAt time.Time      `json:"captured_at"`
}

// PlaybackSnapshot is the result of one audio playback probe.
// Player and Track are best-effort and empty when the probe answered
// through a heuristic rather than a media-session query.
type PlaybackSnapshot struct {
	IsPlaying  bool      `json:"is_playing"`
	Player     string    `json:"player,omitempty"`
	Track      string    `json:"track,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// MonitoringStatus is the coordinator's externally visible state
type MonitoringStatus struct {
	IsActive    bool              `json:"is_active"`
	Meeting     *MeetingSnapshot  `json:"meeting,omitempty"`
	Playback    *PlaybackSnapshot `json:"playback,omitempty"`
	LastAction  *string           `json:"last_action,omitempty"`
	LastCheckAt time.Time         `json:"last_check_at"`
}

// Clone returns a deep copy safe to hand outside the coordinator lock
func (s MonitoringStatus) Clone() MonitoringStatus {
	out := s
	if s.Meeting != nil {
		meeting := *s.Meeting
		meeting.Apps = append([]MonitoredApp(nil), s.Meeting.Apps...)
		out.Meeting = &meeting
	}
	if s.Playback != nil {
		playback := *s.Playback
		out.Playback = &playback
	}
	if s.LastAction != nil {
		action := *s.LastAction
		out.LastAction = &action
	}
	return out
}

// MonitorConfig holds the ordered list of process names that mark a meeting
type MonitorConfig struct {
	ProcessNames []string `json:"process_names"`
}

// Clone returns an independent copy of the config
func (c MonitorConfig) Clone() MonitorConfig {
	return MonitorConfig{ProcessNames: append([]string(nil), c.ProcessNames...)}
}

// DefaultMonitorConfig returns the stock set of meeting helper processes.
// Names must match the live process table exactly; verify with `pgrep -l`.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		ProcessNames: []string{
			"zoom.us",
			"Microsoft Teams",
			"TencentMeeting",
			"Lark Helper (Iron)",
		},
	}
}
