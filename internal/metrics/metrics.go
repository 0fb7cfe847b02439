package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the monitoring core.
type Metrics struct {
	registry *prometheus.Registry

	// Detection cycle metrics
	ChecksTotal      prometheus.Counter
	TransitionsTotal *prometheus.CounterVec
	MonitoringActive prometheus.Gauge
	InMeeting        prometheus.Gauge

	// Playback metrics
	CommandsTotal *prometheus.CounterVec
	ProbeResults  *prometheus.CounterVec
}

// New creates a metrics collector backed by its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		ChecksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "soundbreak_checks_total",
			Help: "Total number of detection cycles that ran OS queries",
		}),
		TransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "soundbreak_meeting_transitions_total",
			Help: "Meeting edge transitions observed",
		}, []string{"direction"}),
		MonitoringActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "soundbreak_monitoring_active",
			Help: "Whether monitoring is currently active (1) or stopped (0)",
		}),
		InMeeting: factory.NewGauge(prometheus.GaugeOpts{
			Name: "soundbreak_in_meeting",
			Help: "Whether a configured meeting process is currently present",
		}),
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "soundbreak_playback_commands_total",
			Help: "Playback commands issued, by action and outcome",
		}, []string{"action", "outcome"}),
		ProbeResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "soundbreak_probe_results_total",
			Help: "Playback probe strategy outcomes",
		}, []string{"strategy", "state"}),
	}
}

// Handler returns an HTTP handler exposing this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordTransition counts a meeting edge ("start" or "end").
func (m *Metrics) RecordTransition(direction string) {
	m.TransitionsTotal.WithLabelValues(direction).Inc()
}

// RecordCommand counts a playback command outcome.
func (m *Metrics) RecordCommand(action, outcome string) {
	m.CommandsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordProbe counts one strategy outcome.
func (m *Metrics) RecordProbe(strategy, state string) {
	m.ProbeResults.WithLabelValues(strategy, state).Inc()
}
