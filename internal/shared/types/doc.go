// Package types defines the data model shared across soundbreak components:
// detection snapshots, playback snapshots, the monitoring status DTO, and the
// monitored-process configuration.
//
// Snapshots are immutable once produced; MonitoringStatus is recomputed every
// cycle and always handed to callers by value.
package types
