// Package server wires the filesystem service behind a gin HTTP surface.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nimblecast/appfs/internal/config"
	"github.com/nimblecast/appfs/internal/fs"
	"github.com/nimblecast/appfs/internal/logging"
	"github.com/nimblecast/appfs/internal/monitoring"
	"github.com/nimblecast/appfs/internal/providers"
	"github.com/nimblecast/appfs/internal/service"
	"github.com/nimblecast/appfs/internal/types"
)

const requestIDKey = "request_id"

// Server wraps the HTTP router and dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("initializing appfs server",
		zap.String("port", cfg.Server.Port),
		zap.String("app", cfg.App.Name),
		zap.String("org", cfg.App.Organization),
	)

	metrics := monitoring.NewMetrics()

	adapter := fs.NewUnix(cfg.App.Name, cfg.App.Organization, logger)
	registry := service.NewRegistry()
	if err := registry.Register(providers.NewFilesystem(adapter)); err != nil {
		return nil, fmt.Errorf("register filesystem provider: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(cors.Default())

	s := &Server{
		router:   router,
		registry: registry,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}

	router.GET("/", s.root)
	router.GET("/health", s.health)
	router.GET("/services", s.listServices)
	router.POST("/services/execute", s.executeService)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("server initialized")
	return s, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close flushes the logger
func (s *Server) Close() error {
	s.logger.Info("shutting down server")
	s.logger.Sync()
	return nil
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "appfs",
		"status":  "running",
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"registry": s.registry.Stats(),
	})
}

func (s *Server) listServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": s.registry.List(nil)})
}

func (s *Server) executeService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Params == nil {
		req.Params = map[string]interface{}{}
	}

	rid := c.GetString(requestIDKey)
	appCtx := &types.Context{RequestID: &rid}

	timer := monitoring.NewTimer(s.metrics, req.ToolID)
	result, err := s.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		timer.Stop("error")
		s.metrics.RecordToolError(req.ToolID)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if result.Success {
		timer.Stop("success")
	} else {
		timer.Stop("failure")
		s.metrics.RecordToolError(req.ToolID)
		s.logger.Warn("tool call failed",
			zap.String("tool", req.ToolID),
			zap.Stringp("error", result.Error),
			zap.String("request_id", rid),
		)
	}
	c.JSON(http.StatusOK, result)
}

// requestID tags every request with a unique ID, echoed in the response
// headers.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}
