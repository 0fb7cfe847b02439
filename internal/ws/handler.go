package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kfstorm/soundbreak/internal/logging"
	"github.com/kfstorm/soundbreak/internal/monitor"
	"github.com/kfstorm/soundbreak/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Loopback-only control surface
	},
}

// statusMessage is one frame on the stream.
type statusMessage struct {
	Type   string                 `json:"type"`
	Status types.MonitoringStatus `json:"status"`
}

// Handler streams monitoring status to connected clients.
type Handler struct {
	coordinator *monitor.Coordinator
	interval    time.Duration
	log         *logging.Logger
}

// NewHandler creates a WebSocket handler pushing status at the given cadence.
func NewHandler(coordinator *monitor.Coordinator, interval time.Duration, log *logging.Logger) *Handler {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Handler{
		coordinator: coordinator,
		interval:    interval,
		log:         log,
	}
}

// HandleConnection upgrades the connection and pushes the monitoring status
// every interval until the client goes away.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := uuid.New().String()
	h.log.Info("stream client connected", zap.String("conn_id", connID))
	defer h.log.Info("stream client disconnected", zap.String("conn_id", connID))

	// Drain incoming frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// First frame immediately, then on cadence.
	if err := h.push(conn); err != nil {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.push(conn); err != nil {
				return
			}
		}
	}
}

func (h *Handler) push(conn *websocket.Conn) error {
	msg := statusMessage{
		Type:   "status",
		Status: h.coordinator.LastStatus(),
	}
	return conn.WriteJSON(msg)
}
