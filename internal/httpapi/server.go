// Package httpapi provides the HTTP API for kbflowd.
package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbflow/internal/search"
)

// Server exposes retrieval endpoints over HTTP.
type Server struct {
	echo     *echo.Echo
	executor *search.Executor
	logger   *zap.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// APIKey enables X-API-Key auth when non-empty.
	APIKey string
	// PageSize is the default number of hits per response.
	PageSize int
}

// NewServer creates a new HTTP server.
func NewServer(executor *search.Executor, logger *zap.Logger, cfg *Config) (*Server, error) {
	if executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = search.DefaultPageSize
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:     e,
		executor: executor,
		logger:   logger,
		config:   cfg,
	}

	e.HTTPErrorHandler = s.handleError

	// Register routes
	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	// Health check stays unauthenticated.
	s.echo.GET("/health", s.handleHealth)

	api := s.echo.Group("")
	if s.config.APIKey != "" {
		api.Use(s.requireAPIKey)
	}
	api.POST("/search", s.handleSearch)
	api.POST("/compare", s.handleCompare)
}

// requireAPIKey rejects requests without the configured X-API-Key header.
func (s *Server) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.config.APIKey)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing API key")
		}
		return next(c)
	}
}

// SearchRequest is the request body for POST /search.
type SearchRequest struct {
	Query    string `json:"query"`
	Strategy string `json:"strategy"`
}

// SearchHit is one result entry in a search or compare response.
type SearchHit struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// CompareRequest is the request body for POST /compare.
type CompareRequest struct {
	Query string `json:"query"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleSearch dispatches a query to the named strategy.
func (s *Server) handleSearch(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid search request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query field is required")
	}

	strategy, err := search.ParseStrategy(req.Strategy)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	hits, err := s.executor.Execute(c.Request().Context(), strategy, req.Query, s.config.PageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSearchHits(hits))
}

// handleCompare runs all strategies for one query.
func (s *Server) handleCompare(c echo.Context) error {
	var req CompareRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid compare request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query field is required")
	}

	comparison, err := s.executor.Compare(c.Request().Context(), req.Query, s.config.PageSize)
	if err != nil {
		return err
	}

	response := make(map[string][]SearchHit, len(comparison))
	for strategy, hits := range comparison {
		response[string(strategy)] = toSearchHits(hits)
	}
	return c.JSON(http.StatusOK, response)
}

// handleError renders every error as {"detail": ...}. Unexpected errors
// never leak internal detail to the client.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	detail := "an internal error occurred"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		detail = fmt.Sprintf("%v", httpErr.Message)
	} else {
		s.logger.Error("request failed", zap.Error(err))
	}

	if jsonErr := c.JSON(status, ErrorResponse{Detail: detail}); jsonErr != nil {
		s.logger.Error("failed to write error response", zap.Error(jsonErr))
	}
}

func toSearchHits(hits []search.Hit) []SearchHit {
	out := make([]SearchHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, SearchHit{
			Text:   h.Text,
			Score:  h.Score,
			Source: h.Field,
		})
	}
	return out
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler returns the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Echo exposes the underlying echo instance for extra route registration.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
