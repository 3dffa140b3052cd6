// internal/web/server.go - read-only status API
package web

import (
    "context"
    "net/http"
    "strconv"

    "github.com/gin-gonic/gin"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/sirupsen/logrus"
    "portalwatch/internal/config"
    "portalwatch/internal/database"
    "portalwatch/internal/monitor"
)

// StatusSource exposes the monitor's in-memory state to handlers.
type StatusSource interface {
    Snapshot() monitor.Snapshot
}

type Server struct {
    config *config.Config
    store  database.Store
    status StatusSource
    router *gin.Engine
    hub    *Hub
    server *http.Server
}

// NewServer wires the read-only API around the store, the monitor's
// snapshot, and the websocket hub the monitor broadcasts into.
func NewServer(cfg *config.Config, store database.Store, status StatusSource, hub *Hub) *Server {
    if cfg.Logging.Level != "debug" {
        gin.SetMode(gin.ReleaseMode)
    }

    router := gin.New()
    router.Use(gin.Recovery())

    server := &Server{
        config: cfg,
        store:  store,
        status: status,
        router: router,
        hub:    hub,
    }

    server.setupRoutes()
    return server
}

func (s *Server) Start(ctx context.Context) error {
    s.server = &http.Server{
        Addr:    s.config.Web.Listen,
        Handler: s.router,
    }

    logrus.WithField("listen", s.config.Web.Listen).Info("Starting web server")

    go func() {
        if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            logrus.WithError(err).Error("Web server exited")
        }
    }()

    return nil
}

func (s *Server) Stop(ctx context.Context) error {
    if s.server != nil {
        return s.server.Shutdown(ctx)
    }
    return nil
}

func (s *Server) setupRoutes() {
    api := s.router.Group("/api")
    {
        api.GET("/status", s.getStatus)
        api.GET("/events", s.getEvents)
        api.GET("/summary", s.getSummary)
        api.GET("/stats", s.getStats)
        api.GET("/health", s.healthCheck)
    }

    s.router.GET("/ws", s.handleWebSocket)
    s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) getStatus(c *gin.Context) {
    c.JSON(http.StatusOK, s.status.Snapshot())
}

func (s *Server) getEvents(c *gin.Context) {
    limit := intQuery(c, "limit", 50)

    events, err := s.store.RecentEvents(c.Request.Context(), limit)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    if events == nil {
        events = []database.ConnectivityEvent{}
    }
    c.JSON(http.StatusOK, events)
}

func (s *Server) getSummary(c *gin.Context) {
    days := intQuery(c, "days", 7)

    summaries, err := s.store.DailySummaries(c.Request.Context(), days)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    if summaries == nil {
        summaries = []database.DailySummary{}
    }
    c.JSON(http.StatusOK, summaries)
}

func (s *Server) getStats(c *gin.Context) {
    stats, err := s.store.Stats(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, stats)
}

func (s *Server) healthCheck(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{
        "status": "ok",
        "state":  s.status.Snapshot().Status,
    })
}

func intQuery(c *gin.Context, name string, fallback int) int {
    value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
    if err != nil || value < 1 {
        return fallback
    }
    return value
}
