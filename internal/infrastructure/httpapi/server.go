// Package httpapi exposes the analyzer, the explainer and the history over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/doeshing/rxdbg/internal/application/analysis"
	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/ports"
)

// MatcherFactory builds a matcher for a per-request engine or flag override.
type MatcherFactory func(engine string, opts domain.MatchOptions) (ports.Matcher, error)

// Server provides HTTP endpoints for rxdbg.
type Server struct {
	echo       *echo.Echo
	analysis   *analysis.Service
	history    ports.HistoryRepository
	newMatcher MatcherFactory
	logger     *zap.Logger
	config     *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server. newMatcher may be nil, in which case
// per-request engine overrides are rejected.
func NewServer(svc *analysis.Service, newMatcher MatcherFactory, logger *zap.Logger, cfg *Config) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("analysis service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: domain.DefaultServerHost,
			Port: domain.DefaultServerPort,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:       e,
		analysis:   svc,
		history:    svc.History,
		newMatcher: newMatcher,
		logger:     logger,
		config:     cfg,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/analyze", s.handleAnalyze)
	v1.POST("/explain", s.handleExplain)
	v1.GET("/examples/random", s.handleRandom)
	v1.GET("/history", s.handleListHistory)
	v1.DELETE("/history", s.handleClearHistory)
	v1.GET("/history/:id", s.handleGetHistory)
	v1.DELETE("/history/:id", s.handleDeleteHistory)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// AnalyzeRequest is the request body for POST /api/v1/analyze.
// Engine and the flag fields override the configured matcher for this call.
type AnalyzeRequest struct {
	Pattern    string `json:"pattern"`
	TestString string `json:"testString"`
	Engine     string `json:"engine,omitempty"`
	IgnoreCase bool   `json:"ignoreCase,omitempty"`
	Multiline  bool   `json:"multiline,omitempty"`
	DotAll     bool   `json:"dotAll,omitempty"`
	// Record defaults to the server's recording setting when omitted.
	Record *bool `json:"record,omitempty"`
}

// ExplainRequest is the request body for POST /api/v1/explain.
type ExplainRequest struct {
	Pattern string `json:"pattern"`
}

// ExplainResponse is the response body for POST /api/v1/explain.
type ExplainResponse struct {
	Pattern     string                   `json:"pattern"`
	Explanation string                   `json:"explanation"`
	Lines       []domain.ExplanationLine `json:"lines"`
}

// RandomResponse is the response body for GET /api/v1/examples/random.
type RandomResponse struct {
	Example  domain.Example  `json:"example"`
	Analysis domain.Analysis `json:"analysis"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Engine string `json:"engine"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Engine: s.analysis.Matcher.Name()})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid analyze request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Pattern == "" {
		return echo.NewHTTPError(http.StatusBadRequest, analysis.ErrEmptyPattern.Error())
	}

	svc := *s.analysis
	if req.Record != nil {
		svc.Record = *req.Record
	}
	if req.Engine != "" || req.IgnoreCase || req.Multiline || req.DotAll {
		if s.newMatcher == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "matcher overrides are disabled")
		}
		engine := req.Engine
		if engine == "" {
			engine = s.analysis.Matcher.Name()
		}
		m, err := s.newMatcher(engine, domain.MatchOptions{
			IgnoreCase: req.IgnoreCase,
			Multiline:  req.Multiline,
			DotAll:     req.DotAll,
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		svc.Matcher = m
	}

	result, err := svc.Run(req.Pattern, req.TestString)
	if err != nil {
		s.logger.Error("analyze failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleExplain(c echo.Context) error {
	var req ExplainRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid explain request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	explainer := s.analysis.Explainer
	return c.JSON(http.StatusOK, ExplainResponse{
		Pattern:     req.Pattern,
		Explanation: explainer.Explain(req.Pattern),
		Lines:       explainer.Lines(req.Pattern),
	})
}

func (s *Server) handleRandom(c echo.Context) error {
	ex, result, err := s.analysis.Random()
	if err != nil {
		s.logger.Error("random example failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, RandomResponse{Example: ex, Analysis: result})
}

func (s *Server) handleListHistory(c echo.Context) error {
	if s.history == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "history store unavailable")
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}
	entries := s.history.Search(c.QueryParam("q"), limit)
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleClearHistory(c echo.Context) error {
	if s.history == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "history store unavailable")
	}
	if err := s.history.ClearHistory(); err != nil {
		s.logger.Error("clear history failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleGetHistory(c echo.Context) error {
	if s.history == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "history store unavailable")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	entry, ok := s.history.Find(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "history entry not found")
	}
	return c.JSON(http.StatusOK, entry)
}

func (s *Server) handleDeleteHistory(c echo.Context) error {
	if s.history == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "history store unavailable")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if _, ok := s.history.Find(id); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "history entry not found")
	}
	if err := s.history.RemoveEntry(id); err != nil {
		s.logger.Error("delete history entry failed", zap.Error(err), zap.Int64("id", id))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}
	return id, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
