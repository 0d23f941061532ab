// Package api provides the HTTP API for the bookstore desk: chat sessions, chat turns,
// and read-only catalog endpoints.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/executor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
)

// Turner runs one chat turn.
type Turner interface {
	Turn(ctx context.Context, req executor.TurnRequest) (*executor.TurnResult, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Config configures the HTTP layer.
type Config struct {
	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string

	// ChatLimiter throttles POST /chat per client IP. Nil disables throttling.
	ChatLimiter *RateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	desk     *desk.Service
	turns    Turner
	db       Pinger
	config   Config
	validate *validator.Validate
	router   *chi.Mux
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(deskService *desk.Service, turns Turner, db Pinger, config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		desk:     deskService,
		turns:    turns,
		db:       db,
		config:   config,
		validate: agent.NewValidator(),
		router:   chi.NewRouter(),
		logger:   logger.With("component", "api"),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)
		r.Delete("/{id}", s.handleDeleteSession)
		r.Get("/{id}/messages", s.handleGetMessages)
	})

	s.router.Group(func(r chi.Router) {
		if s.config.ChatLimiter != nil {
			r.Use(s.RateLimitMiddleware(s.config.ChatLimiter))
		}
		r.Post("/chat", s.handleChat)
	})

	s.router.Route("/books", func(r chi.Router) {
		r.Get("/", s.handleListBooks)
		r.Post("/{isbn}/restock", s.handleRestock)
	})
	s.router.Get("/inventory", s.handleInventory)
	s.router.Get("/orders/{id}", s.handleGetOrder)
}

// handleHealth reports whether the database answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.logger.Error("health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable", s.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"}, s.logger)
}
