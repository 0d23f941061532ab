// Package aisdktest provides a scripted model client for tests.
package aisdktest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/elee1766/bookdesk/src/aisdk"
)

// ErrScriptExhausted is returned when the model is called more times than it has replies.
var ErrScriptExhausted = errors.New("scripted model has no replies left")

// Model replays a fixed list of replies and records every request.
type Model struct {
	Name string

	mu       sync.Mutex
	replies  []aisdk.Message
	requests []aisdk.ChatCompletionRequest
	err      error
}

// NewModel returns a Model that answers with replies in order.
func NewModel(replies ...aisdk.Message) *Model {
	return &Model{Name: "test/scripted", replies: replies}
}

// Failing returns a Model whose every call fails with err.
func Failing(err error) *Model {
	return &Model{Name: "test/failing", err: err}
}

// Answer is a final assistant reply.
func Answer(content string) aisdk.Message {
	return aisdk.Message{Role: aisdk.RoleAssistant, Content: content}
}

// CallTool is an assistant reply requesting one tool call.
func CallTool(id, name string, args any) aisdk.Message {
	raw, err := json.Marshal(args)
	if err != nil {
		panic(err)
	}
	return aisdk.Message{
		Role: aisdk.RoleAssistant,
		ToolCalls: []aisdk.ToolCall{{
			ID:       id,
			Type:     "function",
			Function: aisdk.FunctionCall{Name: name, Arguments: raw},
		}},
	}
}

func (m *Model) CreateChatCompletion(_ context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := *req
	snapshot.Messages = make([]*aisdk.Message, len(req.Messages))
	for i, msg := range req.Messages {
		cp := *msg
		snapshot.Messages[i] = &cp
	}
	m.requests = append(m.requests, snapshot)

	if m.err != nil {
		return nil, m.err
	}
	if len(m.replies) == 0 {
		return nil, ErrScriptExhausted
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return &aisdk.ChatCompletionResponse{
		Model:   m.Name,
		Choices: []aisdk.Choice{{Message: reply, FinishReason: "stop"}},
	}, nil
}

func (m *Model) ModelName() string { return m.Name }

// Requests returns copies of the requests received so far.
func (m *Model) Requests() []aisdk.ChatCompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]aisdk.ChatCompletionRequest(nil), m.requests...)
}
