// Package gateway exposes the research service over HTTP. It uses Echo v5
// for routing and runs on the configured server host and port.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"go.uber.org/zap"

	"researchbot/pkg/apperr"
	"researchbot/pkg/chains"
	"researchbot/pkg/classifier"
	"researchbot/pkg/config"
	"researchbot/pkg/logger"
	"researchbot/pkg/search"
	"researchbot/pkg/version"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "researchbot"

const requestIDHeader = "X-Request-ID"

// Researcher is the service the gateway fronts. *research.Service satisfies it.
type Researcher interface {
	Classify(query string) classifier.Tags
	Search(ctx context.Context, query string) search.Outcome
	Process(ctx context.Context, query string, options map[string]any) chains.Response
	ProcessParallel(ctx context.Context, query string) chains.Response
	Summarize(ctx context.Context, content string) chains.Response
}

// QueryRequest is the body of the query endpoints.
type QueryRequest struct {
	Query   string         `json:"query"`
	Options map[string]any `json:"options,omitempty"`
}

// SummarizeRequest is the body of the summarize endpoint.
type SummarizeRequest struct {
	Content string `json:"content"`
}

// QueryResponse wraps a composed Response with a status field.
type QueryResponse struct {
	Status string `json:"status"`
	chains.Response
}

// ErrorBody is returned for requests that never reached the service.
type ErrorBody struct {
	Status    string `json:"status"`
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Server is the HTTP gateway.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server
	config     *config.ServerConfig
	logger     *logger.Logger
	research   Researcher
}

// NewServer creates the gateway and registers its routes.
func NewServer(cfg *config.Config, log *logger.Logger, research Researcher) *Server {
	s := &Server{
		config:   &cfg.Server,
		logger:   log.Named("gateway"),
		research: research,
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	e := echo.New()

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
	}))
	e.Use(s.requestID)

	e.GET("/", s.handleRoot)
	e.GET("/health", s.handleHealth)

	api := e.Group("/api")
	api.POST("/query", s.handleQuery)
	api.POST("/query/parallel", s.handleQueryParallel)
	api.POST("/search", s.handleSearch)
	api.POST("/classify", s.handleClassify)
	api.POST("/summarize", s.handleSummarize)

	s.echo = e
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts listening in the background.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("Gateway server starting", zap.String("addr", addr))

	// http.Server directly so shutdown stays with the fx lifecycle.
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Gateway server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Gateway server stopping")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// requestID tags every request with an ID, reusing the caller's if present,
// and logs the request once it finishes.
func (s *Server) requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := c.Request().Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Response().Header().Set(requestIDHeader, id)

		start := time.Now()
		err := next(c)
		s.logger.Info("Request handled",
			zap.String("request_id", id),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return err
	}
}

func requestIDOf(c *echo.Context) string {
	id, _ := c.Get("request_id").(string)
	return id
}

func (s *Server) fail(c *echo.Context, err error) error {
	appErr := apperr.From(err)
	if appErr.HTTPStatus() >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("request_id", requestIDOf(c)), zap.Error(err))
	}
	return c.JSON(appErr.HTTPStatus(), ErrorBody{
		Status:    "error",
		Code:      string(appErr.Code),
		Error:     appErr.Message,
		RequestID: requestIDOf(c),
	})
}

// bindQuery decodes a QueryRequest and rejects blank queries.
func bindQuery(c *echo.Context) (QueryRequest, error) {
	var body QueryRequest
	if err := c.Bind(&body); err != nil {
		return body, apperr.Wrap(apperr.CodeInvalidRequest, "invalid request body", err)
	}
	body.Query = strings.TrimSpace(body.Query)
	if body.Query == "" {
		return body, apperr.New(apperr.CodeInvalidRequest, "query is required")
	}
	return body, nil
}

func (s *Server) respond(c *echo.Context, resp chains.Response) error {
	if !resp.OK() {
		status := apperr.New(apperr.CodeCompletionFailed, resp.Error).HTTPStatus()
		return c.JSON(status, QueryResponse{Status: "error", Response: resp})
	}
	return c.JSON(http.StatusOK, QueryResponse{Status: "ok", Response: resp})
}

func (s *Server) handleRoot(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "AI Research Assistant API",
		"status":  "running",
		"version": version.GetVersion(),
		"health":  "/health",
	})
}

func (s *Server) handleHealth(c *echo.Context) error {
	build := version.Get()
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
		"version": build.Version,
		"commit":  build.Commit,
	})
}

func (s *Server) handleQuery(c *echo.Context) error {
	body, err := bindQuery(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, s.research.Process(c.Request().Context(), body.Query, body.Options))
}

func (s *Server) handleQueryParallel(c *echo.Context) error {
	body, err := bindQuery(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, s.research.ProcessParallel(c.Request().Context(), body.Query))
}

func (s *Server) handleSearch(c *echo.Context) error {
	body, err := bindQuery(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, s.research.Search(c.Request().Context(), body.Query))
}

func (s *Server) handleClassify(c *echo.Context) error {
	body, err := bindQuery(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"query": body.Query,
		"tags":  s.research.Classify(body.Query),
	})
}

func (s *Server) handleSummarize(c *echo.Context) error {
	var body SummarizeRequest
	if err := c.Bind(&body); err != nil {
		return s.fail(c, apperr.Wrap(apperr.CodeInvalidRequest, "invalid request body", err))
	}
	if strings.TrimSpace(body.Content) == "" {
		return s.fail(c, apperr.New(apperr.CodeInvalidRequest, "content is required"))
	}
	return s.respond(c, s.research.Summarize(c.Request().Context(), body.Content))
}
