// Package shell wraps external command execution behind a small interface so
// the detector and playback components can be tested without touching the OS.
//
// Every invocation carries a bounded timeout; an expired deadline is reported
// as an ordinary error, never a hang.
package shell
