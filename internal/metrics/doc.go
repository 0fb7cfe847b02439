// Package metrics exposes Prometheus instrumentation for the monitoring
// core: detection cycles, meeting transitions, playback commands, and probe
// strategy outcomes.
//
// Metrics live in a private registry served at /metrics so tests can create
// collectors freely without colliding in the default registry.
package metrics
