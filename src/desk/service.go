// Package desk implements the bookstore operations the desk agent and the HTTP API act on:
// catalog search, ordering, stock and price changes, reporting, and chat session persistence.
package desk

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/elee1766/bookdesk/src/events"
	"github.com/elee1766/bookdesk/src/storage"
)

// LowStockThreshold is the stock level at or below which a title is reported as low.
const LowStockThreshold = 3

// Service runs domain operations against the store. Each call borrows its own connection.
type Service struct {
	db     *sql.DB
	events events.Publisher
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the publisher that receives domain events.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service over db.
func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:     db,
		events: events.Noop{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "desk")
	return s
}

func (s *Service) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	return storage.WithConn(ctx, s.db, fn)
}

// publish delivers an event. Failures are logged and never fail the operation that caused them.
func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish event", "type", ev.Type, "key", ev.Key, "error", err)
	}
}
