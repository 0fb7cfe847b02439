// Package http exposes the coordinator's command surface over REST:
// start/stop/toggle, status, monitored-process configuration, one-shot
// detection and playback probes, and manual play/pause commands.
package http
