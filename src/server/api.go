package server

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"apt/src/helpers"
	"apt/src/logger"
	"apt/src/models"
	"apt/src/query"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// APIServer
//
// HTTP surface consumed by the chat-command layer: query endpoints mirroring
// the query service, plus a websocket stream carrying the alert batches. The
// server never formats user-facing strings beyond the alert batch text itself.
// -----------------------------------------------------------------------------

type APIServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	Query  *query.Service
	engine *gin.Engine

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MAlertBatch
	register   chan *Client
	unregister chan *Client

	// Last delivered batch, replayed to clients on connect
	lastBatch  *models.MAlertBatch
	stateMutex sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *models.MConfig, log *logger.Logger, qs *query.Service) *APIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:  cfg,
		Logger:  log,
		Query:   qs,
		engine:  gin.Default(),
		clients: make(map[*Client]struct{}),
		// Buffered so a detection cycle never blocks on slow consumers
		broadcast:  make(chan *models.MAlertBatch, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	// REST API endpoints
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/status", s.getStatus)
	s.engine.GET("/api/commodities", s.getCommodities)
	s.engine.GET("/api/commodity/:name", s.getCommodity)
	s.engine.GET("/api/commodity/:name/locations", s.getBestLocations)
	s.engine.GET("/api/commodity/:name/trend", s.getTrend)
	s.engine.GET("/api/commodity/:name/valuation", s.getValuation)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *APIServer) Stop() error {
	// Clean shutdown
	close(s.broadcast)
	close(s.register)
	close(s.unregister)
	return nil
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := len(s.clients)
	var lastAlert int64
	if s.lastBatch != nil {
		lastAlert = s.lastBatch.Timestamp
	}
	s.stateMutex.RUnlock()

	c.JSON(200, gin.H{
		"status":      "ok",
		"connections": connections,
		"last_alert":  lastAlert,
	})
}

// -----------------------------------------------------------------------------

// getStatus reports the service configuration and the last alert batch.
func (s *APIServer) getStatus(c *gin.Context) {
	s.stateMutex.RLock()
	last := s.lastBatch
	connections := len(s.clients)
	s.stateMutex.RUnlock()

	c.JSON(200, gin.H{
		"name":                    s.Config.Name,
		"connections":             connections,
		"fetch_interval_minutes":  s.Config.Market.FetchIntervalMinutes,
		"detect_interval_minutes": s.Config.Market.DetectIntervalMinutes,
		"retention_days":          s.Config.Market.RetentionDays,
		"alert_threshold":         s.Config.Market.AlertThreshold,
		"last_alert_batch":        last,
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getCommodities(c *gin.Context) {
	names, err := s.Query.SuggestCommodities(c.Query("match"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(200, gin.H{"commodities": names})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getCommodity(c *gin.Context) {
	obs, err := s.Query.CurrentPrice(c.Param("name"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(200, obs)
}

// -----------------------------------------------------------------------------

func (s *APIServer) getBestLocations(c *gin.Context) {
	best, err := s.Query.BestLocations(c.Param("name"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(200, best)
}

// -----------------------------------------------------------------------------

func (s *APIServer) getTrend(c *gin.Context) {
	points, err := s.Query.TrendSeries(c.Param("name"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(200, gin.H{"commodity_name": c.Param("name"), "points": points})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getValuation(c *gin.Context) {
	amount, err := strconv.ParseInt(c.Query("scu"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "scu must be an integer"})
		return
	}

	valuation, err := s.Query.Valuation(c.Param("name"), amount)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(200, valuation)
}

// -----------------------------------------------------------------------------

// renderError maps the core error taxonomy onto HTTP statuses.
func (s *APIServer) renderError(c *gin.Context, err error) {
	switch {
	case helpers.IsNotFound(err):
		c.JSON(404, gin.H{"error": err.Error()})
	case helpers.IsInvalidInput(err):
		c.JSON(400, gin.H{"error": err.Error()})
	case helpers.IsUpstream(err):
		c.JSON(502, gin.H{"error": err.Error()})
	default:
		s.Logger.Error("Unhandled query error: %v", err)
		c.JSON(500, gin.H{"error": "internal error"})
	}
}
