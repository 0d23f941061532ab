package deskagent

import (
	"context"
	"log/slog"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/elee1766/bookdesk/src/desk"
)

type sessionKey struct{}

// WithSessionID attaches the chat session a turn belongs to.
func WithSessionID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFrom returns the session attached by WithSessionID.
func SessionIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(sessionKey{}).(int64)
	return id, ok
}

// ToolCallRecorder logs every tool call and its result against the session in ctx.
// Calls made outside a session are not recorded. Recording failures never fail the call.
func ToolCallRecorder(svc *desk.Service, logger *slog.Logger) agent.ToolMiddleware {
	return func(next agent.ToolExecutor) agent.ToolExecutor {
		return func(ctx context.Context, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
			resp, err := next(ctx, call)

			sessionID, ok := SessionIDFrom(ctx)
			if !ok || resp == nil {
				return resp, err
			}
			args := string(call.Function.Arguments)
			if args == "" {
				args = "{}"
			}
			if lerr := svc.LogToolCall(ctx, sessionID, call.Function.Name, args, string(resp.Content)); lerr != nil {
				logger.Warn("failed to record tool call", "session_id", sessionID, "tool", call.Function.Name, "error", lerr)
			}
			return resp, err
		}
	}
}
