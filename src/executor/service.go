// Package executor runs chat turns: it resolves the session, persists both sides of the
// exchange, and asks the desk agent for the answer in between.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/storage"
)

// DefaultSessionName is the name given to sessions created implicitly by a turn.
const DefaultSessionName = "Session"

// Asker answers a user message given the session's prior history.
type Asker interface {
	Ask(ctx context.Context, sessionID int64, history []storage.Message, userText string) (*agent.Result, error)
}

// Service handles chat turns with all necessary dependencies
type Service struct {
	desk        *desk.Service
	agent       Asker
	logger      *slog.Logger
	turnTimeout time.Duration
}

// ServiceConfig holds configuration for creating a new Service
type ServiceConfig struct {
	Desk  *desk.Service
	Agent Asker

	// TurnTimeout bounds the agent run of one turn. Zero means no extra bound.
	TurnTimeout time.Duration

	Logger *slog.Logger
}

// NewService creates a new turn service
func NewService(config ServiceConfig) (*Service, error) {
	if config.Desk == nil {
		return nil, ErrDeskRequired
	}
	if config.Agent == nil {
		return nil, ErrAgentRequired
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Service{
		desk:        config.Desk,
		agent:       config.Agent,
		logger:      config.Logger.With("component", "executor"),
		turnTimeout: config.TurnTimeout,
	}, nil
}

// TurnRequest is one inbound chat message. A nil SessionID starts a new session.
type TurnRequest struct {
	SessionID *int64
	Message   string
}

// TurnResult is the agent's answer and the session it was recorded in.
type TurnResult struct {
	SessionID int64  `json:"session_id"`
	Answer    string `json:"answer"`
	Steps     int    `json:"-"`
	ToolCalls int    `json:"-"`
}

// Turn runs one chat turn. The user message is persisted before the agent runs and
// stays persisted if the agent fails.
func (s *Service) Turn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, desk.InvalidArgument("message is required")
	}

	session, err := s.GetOrCreateSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	history, err := s.desk.GetMessages(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if _, err := s.desk.AddMessage(ctx, session.ID, storage.RoleUser, req.Message); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	runCtx := ctx
	if s.turnTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.turnTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.agent.Ask(runCtx, session.ID, history, req.Message)
	if err != nil {
		s.logger.Error("agent run failed", "session_id", session.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAgentFailed, err)
	}

	if _, err := s.desk.AddMessage(ctx, session.ID, storage.RoleAssistant, result.Answer); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	s.logger.Info("turn completed",
		"session_id", session.ID,
		"steps", result.Steps,
		"tool_calls", result.ToolCalls,
		"duration", time.Since(start))

	return &TurnResult{
		SessionID: session.ID,
		Answer:    result.Answer,
		Steps:     result.Steps,
		ToolCalls: result.ToolCalls,
	}, nil
}

// GetOrCreateSession returns the session with the given id, or creates a new one when id is nil.
func (s *Service) GetOrCreateSession(ctx context.Context, id *int64) (*storage.Session, error) {
	if id != nil {
		return s.desk.GetSession(ctx, *id)
	}
	session, err := s.desk.CreateSession(ctx, DefaultSessionName)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Debug("created session", "session_id", session.ID)
	return session, nil
}
