package server

import (
	"fmt"
	"net/http"
	"sync"

	"sma-observer/src/logger"
	"sma-observer/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// ObserverServer
// -----------------------------------------------------------------------------

// SeriesProvider exposes the retained sample snapshot for the REST API.
type SeriesProvider interface {
	Samples() []models.MSample
}

type ObserverServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	Series SeriesProvider

	engine *gin.Engine

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MLatestData
	register   chan *Client
	unregister chan *Client

	// Local cache
	latestState *models.MLatestData
	stateMutex  sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewObserverServer(cfg *models.MConfig, log *logger.Logger, series SeriesProvider) *ObserverServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &ObserverServer{
		Config:  cfg,
		Logger:  log,
		Series:  series,
		engine:  gin.Default(),
		clients: make(map[*Client]struct{}),
		// Buffered channel so a burst of updates never blocks the producer
		broadcast:  make(chan *models.MLatestData, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		latestState: &models.MLatestData{
			Type: "INITIAL",
		},
	}

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *ObserverServer) setupRoutes() {
	// REST API endpoints
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/latest", s.getLatest)
	s.engine.GET("/api/series", s.getSeries)
	s.engine.GET("/api/config", s.getConfig)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *ObserverServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.runHub()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *ObserverServer) Stop() error {
	close(s.broadcast)
	close(s.register)
	close(s.unregister)
	return nil
}

// -----------------------------------------------------------------------------
// REST Handlers
// -----------------------------------------------------------------------------

func (s *ObserverServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// -----------------------------------------------------------------------------

func (s *ObserverServer) getLatest(c *gin.Context) {
	s.stateMutex.RLock()
	state := *s.latestState
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, state)
}

// -----------------------------------------------------------------------------

func (s *ObserverServer) getSeries(c *gin.Context) {
	samples := []models.MSample{}
	if s.Series != nil {
		samples = s.Series.Samples()
	}
	c.JSON(http.StatusOK, gin.H{"count": len(samples), "samples": samples})
}

// -----------------------------------------------------------------------------

func (s *ObserverServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":     s.Config.Name,
		"engine":   s.Config.Engine,
		"calendar": s.Config.Calendar,
	})
}
