// Package server exposes the data protection engine over a REST API:
// analysis, policy management, alerts, audit logs, and system status.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ul8ziz/Integrated-Data-Protection-System/internal/monitor"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/auth"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp"
)

// RecognizerStatus reports the health of the external NER service.
type RecognizerStatus interface {
	Healthy(ctx context.Context) bool
}

// BlockerStatus reports whether the blocking agent is live or simulated.
type BlockerStatus interface {
	Enabled() bool
}

// Deps collects everything the API serves. Monitor, Recognizer, and
// BlockerInfo are optional and only enrich the status endpoint.
type Deps struct {
	Engine      *dlp.Engine
	Policies    dlp.PolicyStore
	Alerts      dlp.AlertStore
	Logs        dlp.LogStore
	Blocker     dlp.BlockingService
	Auth        *auth.Manager
	Users       *UserStore
	Monitor     *monitor.Monitor
	Recognizer  RecognizerStatus
	BlockerInfo BlockerStatus
	Logger      zerolog.Logger
}

// Server is the HTTP front of the protection system.
type Server struct {
	engine      *dlp.Engine
	policies    dlp.PolicyStore
	alerts      dlp.AlertStore
	logs        dlp.LogStore
	blocker     dlp.BlockingService
	auth        *auth.Manager
	users       *UserStore
	monitor     *monitor.Monitor
	recognizer  RecognizerStatus
	blockerInfo BlockerStatus
	logger      zerolog.Logger

	router     *gin.Engine
	httpServer *http.Server
}

// New assembles the router. The returned server is ready to Run or to serve
// through Handler in tests.
func New(addr string, deps Deps) (*Server, error) {
	switch {
	case deps.Engine == nil:
		return nil, errors.New("server: engine is required")
	case deps.Policies == nil:
		return nil, errors.New("server: policy store is required")
	case deps.Alerts == nil:
		return nil, errors.New("server: alert store is required")
	case deps.Logs == nil:
		return nil, errors.New("server: log store is required")
	case deps.Blocker == nil:
		return nil, errors.New("server: blocking service is required")
	case deps.Auth == nil:
		return nil, errors.New("server: auth manager is required")
	case deps.Users == nil:
		return nil, errors.New("server: user store is required")
	}

	s := &Server{
		engine:      deps.Engine,
		policies:    deps.Policies,
		alerts:      deps.Alerts,
		logs:        deps.Logs,
		blocker:     deps.Blocker,
		auth:        deps.Auth,
		users:       deps.Users,
		monitor:     deps.Monitor,
		recognizer:  deps.Recognizer,
		blockerInfo: deps.BlockerInfo,
		logger:      deps.Logger.With().Str("component", "api_server").Logger(),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))
	s.registerRoutes(router)
	s.router = router

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}
	return s, nil
}

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/health", s.handleHealth)
	router.POST("/api/auth/login", s.handleLogin)

	api := router.Group("/api", authRequired(s.auth))
	{
		api.POST("/auth/logout", s.handleLogout)

		api.POST("/analyze", s.handleAnalyze)
		api.GET("/analyze/entities", s.handleSupportedEntities)

		api.GET("/policies", s.handleListPolicies)
		api.GET("/policies/:id", s.handleGetPolicy)

		api.GET("/alerts", s.handleListAlerts)
		api.GET("/logs", s.handleListLogs)
		api.GET("/monitoring/status", s.handleStatus)

		admin := api.Group("", adminOnly())
		{
			admin.POST("/policies", s.handleCreatePolicy)
			admin.PUT("/policies/:id", s.handleUpdatePolicy)
			admin.DELETE("/policies/:id", s.handleDeletePolicy)
		}
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("api server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info().Msg("api server stopped")
	return nil
}
