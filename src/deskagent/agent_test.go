package deskagent

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/elee1766/bookdesk/src/aisdk/aisdktest"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/desk/desktest"
	"github.com/elee1766/bookdesk/src/deskagent/tools"
	"github.com/elee1766/bookdesk/src/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAskRunsToolsAndRecordsCalls(t *testing.T) {
	ctx := context.Background()
	fx := desktest.Open(t)
	svc := desk.NewService(fx.DB.DB())

	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	model := aisdktest.NewModel(
		aisdktest.CallTool("call_1", tools.FindBooksName, map[string]any{"q": "harry"}),
		aisdktest.CallTool("call_2", tools.FindBooksName, map[string]any{"q": "harry", "by": "bogus"}),
		aisdktest.Answer("We have two Harry Potter books."),
	)
	builder, err := NewBuilder(svc, model, Config{RecordToolCalls: true, Logger: discardLogger()})
	require.NoError(t, err)

	history := []storage.Message{
		{Role: storage.RoleUser, Content: "hi"},
		{Role: storage.RoleAssistant, Content: "Hello! How can I help?"},
	}
	result, err := builder.Ask(ctx, session.ID, history, "any harry potter?")
	require.NoError(t, err)
	assert.Equal(t, "We have two Harry Potter books.", result.Answer)
	assert.Equal(t, 3, result.Steps)
	assert.Equal(t, 2, result.ToolCalls)

	requests := model.Requests()
	require.Len(t, requests, 3)
	first := requests[0]
	require.Len(t, first.Messages, 4)
	assert.Equal(t, aisdk.RoleSystem, first.Messages[0].Role)
	assert.Equal(t, "hi", first.Messages[1].Content)
	assert.Equal(t, aisdk.RoleAssistant, first.Messages[2].Role)
	assert.Equal(t, "any harry potter?", first.Messages[3].Content)
	require.NotNil(t, first.Temperature)
	assert.Equal(t, 0.0, *first.Temperature)
	assert.Len(t, first.Tools, 6)

	toolResult := requests[1].Messages[5]
	assert.Equal(t, aisdk.RoleTool, toolResult.Role)
	assert.Equal(t, "call_1", toolResult.ToolCallID)
	var books []storage.Book
	require.NoError(t, json.Unmarshal([]byte(toolResult.Content), &books))
	assert.Len(t, books, 2)

	calls, err := svc.ListToolCalls(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, tools.FindBooksName, calls[0].Name)
	assert.JSONEq(t, `{"q":"harry"}`, calls[0].ArgsJSON)
	assert.JSONEq(t, `{"error":"Invalid 'by' parameter. Must be 'title' or 'author'."}`, calls[1].ResultJSON)
}

func TestAskWithoutRecording(t *testing.T) {
	ctx := context.Background()
	fx := desktest.Open(t)
	svc := desk.NewService(fx.DB.DB())
	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	model := aisdktest.NewModel(
		aisdktest.CallTool("c", tools.InventorySummaryName, map[string]any{}),
		aisdktest.Answer("4 titles."),
	)
	builder, err := NewBuilder(svc, model, Config{Logger: discardLogger()})
	require.NoError(t, err)

	_, err = builder.Ask(ctx, session.ID, nil, "summary please")
	require.NoError(t, err)

	calls, err := svc.ListToolCalls(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, calls)
}

type explodeInput struct{}

func TestRecorderLogsPanickingTool(t *testing.T) {
	ctx := context.Background()
	fx := desktest.Open(t)
	svc := desk.NewService(fx.DB.DB())
	session, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	toolbox := agent.NewToolbox[agent.Tool]()
	require.NoError(t, toolbox.RegisterTool(agent.MustNewGenericTool("explode", "", func(ctx context.Context, in explodeInput) (struct{}, error) {
		panic("boom")
	})))
	for _, mw := range toolMiddleware(svc, Config{RecordToolCalls: true}, discardLogger()) {
		toolbox.RegisterMiddleware(mw)
	}

	resp, err := toolbox.ExecuteTool(WithSessionID(ctx, session.ID), &aisdk.ToolCall{
		ID:       "call_1",
		Function: aisdk.FunctionCall{Name: "explode", Arguments: json.RawMessage(`{}`)},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsError)

	calls, err := svc.ListToolCalls(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "explode", calls[0].Name)
	assert.JSONEq(t, `{"error":"tool explode failed unexpectedly"}`, calls[0].ResultJSON)
}

func TestBuildUsesConfiguredPrompt(t *testing.T) {
	builder, err := NewBuilder(desk.NewService(nil), aisdktest.NewModel(), Config{
		SystemPrompt: "custom prompt",
		Temperature:  0.3,
		MaxSteps:     4,
	})
	require.NoError(t, err)

	a, conv := builder.Build(nil)
	require.Equal(t, 1, conv.Len())
	assert.Equal(t, "custom prompt", conv.Messages[0].Content)
	assert.Equal(t, 0.3, *a.Temperature)
	assert.Equal(t, 4, a.MaxSteps)
}

func TestReplayHistory(t *testing.T) {
	history := []storage.Message{
		{Role: storage.RoleSystem, Content: "note"},
		{Role: storage.RoleUser, Content: "q"},
		{Role: storage.Role("bogus"), Content: "skipped"},
		{Role: storage.RoleAssistant, Content: "a"},
	}
	msgs := ReplayHistory(history)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{aisdk.RoleSystem, aisdk.RoleUser, aisdk.RoleAssistant},
		[]string{msgs[0].Role, msgs[1].Role, msgs[2].Role})
}

func TestGenerateSystemPrompt(t *testing.T) {
	builder, err := NewBuilder(desk.NewService(nil), aisdktest.NewModel(), Config{})
	require.NoError(t, err)

	prompt := GenerateSystemPrompt(builder.Toolbox(), time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	for _, name := range builder.Toolbox().Names() {
		assert.Contains(t, prompt, "- "+name+": ")
	}
	assert.Contains(t, prompt, "Today's date: 2026-03-04")
	assert.Contains(t, prompt, "- create_order: Create a customer order. Always provide both customer_id and items.\n")
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionIDFrom(context.Background())
	assert.False(t, ok)

	id, ok := SessionIDFrom(WithSessionID(context.Background(), 7))
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}
