// Package deskagent assembles the bookstore agent: the desk tools, the system prompt,
// and a conversation replayed from a session's stored messages.
package deskagent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/deskagent/tools"
	"github.com/elee1766/bookdesk/src/deskagent/toolsutil"
	"github.com/elee1766/bookdesk/src/storage"
)

// Config holds the configuration for the desk agent
type Config struct {
	// Sampling temperature. Zero keeps tool selection deterministic.
	Temperature float64

	// MaxSteps bounds model calls per turn; zero uses agent.DefaultMaxSteps.
	MaxSteps int

	// SystemPrompt replaces the generated prompt when set.
	SystemPrompt string

	// RecordToolCalls logs each tool call against the session.
	RecordToolCalls bool

	Logger *slog.Logger
}

// Builder creates a fresh agent for every turn. It holds no per-session state.
type Builder struct {
	config  Config
	model   aisdk.ModelClient
	toolbox *agent.DefaultToolbox
	logger  *slog.Logger
	now     func() time.Time
}

// toolMiddleware returns the toolbox middleware, outermost first. The recorder wraps the
// recover layer so a call that panics is still written to the tool call log.
func toolMiddleware(svc *desk.Service, config Config, logger *slog.Logger) []agent.ToolMiddleware {
	var mws []agent.ToolMiddleware
	if config.RecordToolCalls {
		mws = append(mws, ToolCallRecorder(svc, logger))
	}
	return append(mws, agent.RecoverMiddleware(logger), agent.LoggingMiddleware(logger))
}

// NewBuilder wires the desk tools over svc and binds them to model.
func NewBuilder(svc *desk.Service, model aisdk.ModelClient, config Config) (*Builder, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "deskagent")
	toolsutil.SetLogger(logger.With("component", "tools"))

	all, err := tools.All(svc)
	if err != nil {
		return nil, fmt.Errorf("failed to build tools: %w", err)
	}
	toolbox := agent.NewToolbox[agent.Tool]()
	for _, tool := range all {
		if err := toolbox.RegisterTool(tool); err != nil {
			return nil, err
		}
	}
	for _, mw := range toolMiddleware(svc, config, logger) {
		toolbox.RegisterMiddleware(mw)
	}

	return &Builder{
		config:  config,
		model:   model,
		toolbox: toolbox,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Toolbox returns the tool set bound to every agent.
func (b *Builder) Toolbox() *agent.DefaultToolbox {
	return b.toolbox
}

// Build returns an agent and a conversation holding the system prompt followed by history.
func (b *Builder) Build(history []storage.Message) (*agent.Agent, *aisdk.Conversation) {
	prompt := b.config.SystemPrompt
	if prompt == "" {
		prompt = GenerateSystemPrompt(b.toolbox, b.now())
	}

	conv := aisdk.NewConversation(prompt)
	conv.Append(ReplayHistory(history)...)

	temperature := b.config.Temperature
	return &agent.Agent{
		Model:       b.model,
		Toolbox:     b.toolbox,
		Temperature: &temperature,
		MaxSteps:    b.config.MaxSteps,
		Logger:      b.logger,
	}, conv
}

// Ask runs one turn: history is replayed, userText is appended, and the model answers.
func (b *Builder) Ask(ctx context.Context, sessionID int64, history []storage.Message, userText string) (*agent.Result, error) {
	a, conv := b.Build(history)
	conv.Append(&aisdk.Message{Role: aisdk.RoleUser, Content: userText})

	b.logger.Debug("running agent", "session_id", sessionID, "history", len(history), "model", b.model.ModelName())
	return a.Run(WithSessionID(ctx, sessionID), conv)
}

// ReplayHistory converts stored messages into transcript messages, preserving order and role.
func ReplayHistory(history []storage.Message) []*aisdk.Message {
	out := make([]*aisdk.Message, 0, len(history))
	for _, m := range history {
		var role string
		switch m.Role {
		case storage.RoleUser:
			role = aisdk.RoleUser
		case storage.RoleAssistant:
			role = aisdk.RoleAssistant
		case storage.RoleSystem:
			role = aisdk.RoleSystem
		default:
			continue
		}
		out = append(out, &aisdk.Message{Role: role, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return out
}
