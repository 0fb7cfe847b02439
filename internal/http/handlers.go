package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kfstorm/soundbreak/internal/detector"
	"github.com/kfstorm/soundbreak/internal/monitor"
	"github.com/kfstorm/soundbreak/internal/playback"
	"github.com/kfstorm/soundbreak/internal/shared/types"
	"github.com/kfstorm/soundbreak/internal/store"
)

// Handlers holds dependencies for HTTP endpoints
type Handlers struct {
	coordinator *monitor.Coordinator
	detector    *detector.Detector
	probe       *playback.Probe
	controller  *playback.Controller
	store       *store.Store
}

// NewHandlers creates HTTP handlers with dependencies
func NewHandlers(
	coordinator *monitor.Coordinator,
	det *detector.Detector,
	probe *playback.Probe,
	controller *playback.Controller,
	st *store.Store,
) *Handlers {
	return &Handlers{
		coordinator: coordinator,
		detector:    det,
		probe:       probe,
		controller:  controller,
		store:       st,
	}
}

// Root returns service information
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "soundbreak",
		"status":  "running",
	})
}

// Health returns health check status
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"monitoring_active": h.coordinator.Active(),
	})
}

// StartMonitoring begins the detection cycle
func (h *Handlers) StartMonitoring(c *gin.Context) {
	message, err := h.coordinator.Start()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// StopMonitoring halts the detection cycle
func (h *Handlers) StopMonitoring(c *gin.Context) {
	message, err := h.coordinator.Stop()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// ToggleMonitoring flips the monitoring state
func (h *Handlers) ToggleMonitoring(c *gin.Context) {
	message, err := h.coordinator.Toggle()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// MonitoringStatus returns the latest status, triggering a rate-limited check
func (h *Handlers) MonitoringStatus(c *gin.Context) {
	status := h.coordinator.Status(c.Request.Context())
	c.JSON(http.StatusOK, status)
}

// GetConfig returns the monitored-process configuration
func (h *Handlers) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.Config())
}

// UpdateConfig replaces the monitored-process configuration and persists it.
// The new list takes effect on the next detection cycle.
func (h *Handlers) UpdateConfig(c *gin.Context) {
	var cfg types.MonitorConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid config: " + err.Error()})
		return
	}
	if len(cfg.ProcessNames) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "process_names must not be empty"})
		return
	}

	h.coordinator.UpdateConfig(cfg)
	if err := h.store.Save(cfg); err != nil {
		// Config is live in memory; persistence failed.
		c.JSON(http.StatusOK, gin.H{
			"message": "Configuration updated but not persisted",
			"warning": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meeting configuration updated successfully"})
}

// DetectMeetings runs a one-shot detection pass outside the coordinator
func (h *Handlers) DetectMeetings(c *gin.Context) {
	snapshot := h.detector.Detect(c.Request.Context(), h.coordinator.Config().ProcessNames)
	c.JSON(http.StatusOK, snapshot)
}

// PlaybackStatus runs a one-shot playback probe
func (h *Handlers) PlaybackStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.probe.Snapshot(c.Request.Context()))
}

// playbackCommandRequest is the manual play/pause request body
type playbackCommandRequest struct {
	Action types.Action `json:"action" binding:"required"`
}

// PlaybackCommand issues a manual play or pause command
func (h *Handlers) PlaybackCommand(c *gin.Context) {
	var req playbackCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if !req.Action.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid action, only 'play' and 'pause' are supported",
		})
		return
	}

	outcome, err := h.controller.Send(c.Request.Context(), req.Action)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": outcome})
}
