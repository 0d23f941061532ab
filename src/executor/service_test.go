package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/elee1766/bookdesk/src/aisdk/aisdktest"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/desk/desktest"
	"github.com/elee1766/bookdesk/src/deskagent"
	"github.com/elee1766/bookdesk/src/deskagent/tools"
	"github.com/elee1766/bookdesk/src/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, model aisdk.ModelClient) (*Service, *desk.Service, *desktest.Fixture) {
	t.Helper()
	fx := desktest.Open(t)
	svc := desk.NewService(fx.DB.DB(), desk.WithLogger(discardLogger()))
	builder, err := deskagent.NewBuilder(svc, model, deskagent.Config{RecordToolCalls: true, Logger: discardLogger()})
	require.NoError(t, err)
	exec, err := NewService(ServiceConfig{Desk: svc, Agent: builder, Logger: discardLogger()})
	require.NoError(t, err)
	return exec, svc, fx
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceConfig{})
	assert.ErrorIs(t, err, ErrDeskRequired)

	fx := desktest.Open(t)
	_, err = NewService(ServiceConfig{Desk: desk.NewService(fx.DB.DB())})
	assert.ErrorIs(t, err, ErrAgentRequired)
}

func TestTurnCreatesSessionAndPersistsBothMessages(t *testing.T) {
	ctx := context.Background()
	model := aisdktest.NewModel(
		aisdktest.CallTool("call_1", tools.InventorySummaryName, map[string]any{}),
		aisdktest.Answer("We stock 4 titles."),
	)
	exec, svc, _ := newTestService(t, model)

	result, err := exec.Turn(ctx, TurnRequest{Message: "How many titles?"})
	require.NoError(t, err)
	assert.Equal(t, "We stock 4 titles.", result.Answer)
	assert.Equal(t, 1, result.ToolCalls)

	session, err := svc.GetSession(ctx, result.SessionID)
	require.NoError(t, err)
	require.NotNil(t, session.Name)
	assert.Equal(t, DefaultSessionName, *session.Name)

	messages, err := svc.GetMessages(ctx, result.SessionID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, storage.RoleUser, messages[0].Role)
	assert.Equal(t, "How many titles?", messages[0].Content)
	assert.Equal(t, storage.RoleAssistant, messages[1].Role)
	assert.Equal(t, "We stock 4 titles.", messages[1].Content)

	calls, err := svc.ListToolCalls(ctx, result.SessionID)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, tools.InventorySummaryName, calls[0].Name)
}

func TestTurnReplaysHistoryWithoutCurrentMessage(t *testing.T) {
	ctx := context.Background()
	model := aisdktest.NewModel(
		aisdktest.Answer("Hello!"),
		aisdktest.Answer("Yes, The Hobbit."),
	)
	exec, _, _ := newTestService(t, model)

	first, err := exec.Turn(ctx, TurnRequest{Message: "hi"})
	require.NoError(t, err)

	sessionID := first.SessionID
	second, err := exec.Turn(ctx, TurnRequest{SessionID: &sessionID, Message: "Any Tolkien?"})
	require.NoError(t, err)
	assert.Equal(t, sessionID, second.SessionID)

	requests := model.Requests()
	require.Len(t, requests, 2)
	msgs := requests[1].Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, aisdk.RoleSystem, msgs[0].Role)
	assert.Equal(t, "hi", msgs[1].Content)
	assert.Equal(t, "Hello!", msgs[2].Content)
	assert.Equal(t, aisdk.RoleUser, msgs[3].Role)
	assert.Equal(t, "Any Tolkien?", msgs[3].Content)
}

func TestTurnUnknownSession(t *testing.T) {
	model := aisdktest.NewModel(aisdktest.Answer("unused"))
	exec, _, _ := newTestService(t, model)

	missing := int64(404)
	_, err := exec.Turn(context.Background(), TurnRequest{SessionID: &missing, Message: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, desk.ErrNotFound)
	assert.Empty(t, model.Requests())
}

func TestTurnEmptyMessage(t *testing.T) {
	model := aisdktest.NewModel()
	exec, svc, _ := newTestService(t, model)

	_, err := exec.Turn(context.Background(), TurnRequest{Message: "   "})
	assert.ErrorIs(t, err, desk.ErrInvalidArgument)

	sessions, err := svc.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestTurnAgentFailureKeepsUserMessage(t *testing.T) {
	ctx := context.Background()
	upstream := errors.New("upstream unavailable")
	exec, svc, _ := newTestService(t, aisdktest.Failing(upstream))

	session, err := svc.CreateSession(ctx, "desk")
	require.NoError(t, err)

	_, err = exec.Turn(ctx, TurnRequest{SessionID: &session.ID, Message: "sell me a book"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAgentFailed)
	assert.ErrorIs(t, err, upstream)

	messages, err := svc.GetMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, storage.RoleUser, messages[0].Role)
	assert.Equal(t, "sell me a book", messages[0].Content)
}
