// Package server exposes post generation over HTTP: a JSON endpoint and an
// interactive HTML form, both served by echo.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Yates-Labs/linkforge/internal/orchestrator"
)

// Generator is the workflow the server delegates to.
type Generator interface {
	Generate(ctx context.Context, req orchestrator.GenerationRequest) (orchestrator.GenerationResult, error)
}

// Options configures the server.
type Options struct {
	// RequestTimeout bounds a single generation call (default 2m)
	RequestTimeout time.Duration

	// SessionSecret signs the form preferences cookie. A random secret is
	// generated when empty, so preferences do not survive a restart.
	SessionSecret string

	// CookieSecure marks cookies Secure (set behind HTTPS)
	CookieSecure bool

	Logger *zap.Logger
}

// Server wires the generator into echo.
type Server struct {
	echo    *echo.Echo
	gen     Generator
	opts    Options
	logger  *zap.Logger
	md      *markdownRenderer
	started time.Time
}

// New creates a server with middleware and routes registered.
func New(gen Generator, opts Options) (*Server, error) {
	if gen == nil {
		return nil, errors.New("generator required")
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 2 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SessionSecret == "" {
		opts.Logger.Warn("No session secret configured, generating an ephemeral one")
		opts.SessionSecret = string(securecookie.GenerateRandomKey(32))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		gen:     gen,
		opts:    opts,
		logger:  opts.Logger,
		md:      newMarkdownRenderer(),
		started: time.Now(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting web server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	e := s.echo

	// JSON surface
	e.POST("/generate", s.handleGenerate)
	e.POST("/api/generate", s.handleGenerate)
	e.GET("/api/options", s.handleOptions)
	e.GET("/healthz", s.handleHealth)

	// Form surface
	e.GET("/", s.handleForm)
	e.POST("/", s.handleFormSubmit)
}

func (s *Server) setupMiddleware() {
	e := s.echo

	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				s.logger.Warn("Request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			s.logger.Info("Request", fields...)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:",
	}))

	e.Use(session.Middleware(s.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   s.opts.CookieSecure,
		Skipper: func(c echo.Context) bool {
			return isAPIPath(c.Request().URL.Path)
		},
	}))
}

func (s *Server) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(s.opts.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 30,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.opts.CookieSecure,
	}
	return store
}

func isAPIPath(path string) bool {
	return path == "/generate" || path == "/healthz" || strings.HasPrefix(path, "/api/")
}

// httpErrorHandler keeps the JSON surface's response shape for every error,
// including panics recovered by middleware.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if !isAPIPath(c.Request().URL.Path) {
		s.echo.DefaultHTTPErrorHandler(err, c)
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if code >= 500 {
		s.logger.Error("Server error", zap.Error(err))
	}
	_ = c.JSON(code, Response{Success: false, Error: msg})
}
