package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kfstorm/soundbreak/internal/api/middleware"
	"github.com/kfstorm/soundbreak/internal/config"
	"github.com/kfstorm/soundbreak/internal/detector"
	httpapi "github.com/kfstorm/soundbreak/internal/http"
	"github.com/kfstorm/soundbreak/internal/logging"
	"github.com/kfstorm/soundbreak/internal/metrics"
	"github.com/kfstorm/soundbreak/internal/monitor"
	"github.com/kfstorm/soundbreak/internal/playback"
	"github.com/kfstorm/soundbreak/internal/resilience"
	"github.com/kfstorm/soundbreak/internal/shell"
	"github.com/kfstorm/soundbreak/internal/store"
	"github.com/kfstorm/soundbreak/internal/ws"
)

// Server wires the monitoring core to its HTTP surface.
type Server struct {
	cfg         *config.Config
	log         *logging.Logger
	coordinator *monitor.Coordinator
	ticker      *monitor.Ticker
	httpServer  *http.Server
}

// New builds the full dependency graph.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	collector := metrics.New()

	// One bounded-timeout runner for cheap queries (pgrep), and a
	// breaker-guarded one for osascript/pmset, which are the tools that
	// actually wedge in practice.
	execRunner := shell.NewExec(cfg.Monitor.CommandTimeout)
	breaker := resilience.New("osascript", resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         30 * cfg.Monitor.MinCheckInterval,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	guardedRunner := resilience.NewRunner(execRunner, breaker)

	det := detector.New(execRunner, log)
	probe := playback.NewProbe(log,
		playback.NewNowPlayingStrategy(guardedRunner),
		playback.NewAssertionStrategy(guardedRunner),
	).WithObserver(func(strategy string, state playback.State) {
		collector.RecordProbe(strategy, state.String())
	})
	controller := playback.NewController(guardedRunner, log)

	configPath := cfg.Monitor.ConfigPath
	if configPath == "" {
		path, err := store.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		configPath = path
	}
	configStore := store.New(configPath, log)

	coordinator := monitor.NewCoordinator(det, probe, controller, log, monitor.Options{
		MinInterval: cfg.Monitor.MinCheckInterval,
		Config:      configStore.Load(),
		Metrics:     collector,
	})
	ticker := monitor.NewTicker(coordinator, cfg.Monitor.TickInterval, log)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := httpapi.NewHandlers(coordinator, det, probe, controller, configStore)
	wsHandler := ws.NewHandler(coordinator, cfg.Monitor.TickInterval, log)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	router.POST("/monitoring/start", handlers.StartMonitoring)
	router.POST("/monitoring/stop", handlers.StopMonitoring)
	router.POST("/monitoring/toggle", handlers.ToggleMonitoring)
	router.GET("/monitoring/status", handlers.MonitoringStatus)
	router.GET("/monitoring/config", handlers.GetConfig)
	router.PUT("/monitoring/config", handlers.UpdateConfig)

	router.GET("/meetings", handlers.DetectMeetings)
	router.GET("/playback", handlers.PlaybackStatus)
	router.POST("/playback/command", handlers.PlaybackCommand)

	router.GET("/metrics", gin.WrapH(collector.Handler()))
	router.GET("/stream", wsHandler.HandleConnection)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	return &Server{
		cfg:         cfg,
		log:         log,
		coordinator: coordinator,
		ticker:      ticker,
		httpServer: &http.Server{
			Addr:    addr,
			Handler: router,
		},
	}, nil
}

// Coordinator exposes the monitoring core, mainly for the entrypoint.
func (s *Server) Coordinator() *monitor.Coordinator {
	return s.coordinator
}

// Run starts the ticker and serves HTTP until Shutdown.
func (s *Server) Run() error {
	if s.cfg.Monitor.AutoStart {
		if message, err := s.coordinator.Start(); err == nil {
			s.log.Info("auto-started monitoring", zap.String("message", message))
		}
	}
	s.ticker.Start()

	s.log.Info("serving", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the ticker and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ticker.Stop()
	return s.httpServer.Shutdown(ctx)
}
