package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
)

// GetSessionByID retrieves a session by its ID
func GetSessionByID(ctx context.Context, db sqlscan.Querier, sessionID int64) (*Session, error) {
	query := `SELECT id, name, created_at FROM sessions WHERE id = ?`
	var s Session
	err := sqlscan.Get(ctx, db, &s, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return &s, nil
}

// ListSessions returns every session, newest first
func ListSessions(ctx context.Context, db sqlscan.Querier) ([]Session, error) {
	query := `SELECT id, name, created_at FROM sessions ORDER BY created_at DESC, id DESC`
	var sessions []Session
	if err := sqlscan.Select(ctx, db, &sessions, query); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CreateSession creates a new session in the database
func CreateSession(ctx context.Context, db Execer, session *Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	res, err := db.ExecContext(ctx, `INSERT INTO sessions (name, created_at) VALUES (?, ?)`, session.Name, session.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	session.ID = id
	return nil
}

// DeleteSession removes a session's tool calls, messages and the session row itself.
// It reports whether the session existed.
func DeleteSession(ctx context.Context, db Execer, sessionID int64) (bool, error) {
	if _, err := db.ExecContext(ctx, `DELETE FROM tool_calls WHERE session_id = ?`, sessionID); err != nil {
		return false, err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetMessagesBySessionID retrieves all messages for a session ordered by creation time
func GetMessagesBySessionID(ctx context.Context, db sqlscan.Querier, sessionID int64) ([]Message, error) {
	query := `SELECT id, session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY created_at, id`
	var messages []Message
	err := sqlscan.Select(ctx, db, &messages, query, sessionID)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// CreateMessage creates a new message in the database
func CreateMessage(ctx context.Context, db Execer, message *Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query, message.SessionID, message.Role, message.Content, message.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	message.ID = id
	return nil
}

// CreateToolCall records a tool execution against a session
func CreateToolCall(ctx context.Context, db Execer, call *ToolCall) error {
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO tool_calls (session_id, name, args_json, result_json, created_at) VALUES (?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query, call.SessionID, call.Name, call.ArgsJSON, call.ResultJSON, call.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	call.ID = id
	return nil
}

// GetToolCallsBySessionID retrieves the tool calls logged for a session in execution order
func GetToolCallsBySessionID(ctx context.Context, db sqlscan.Querier, sessionID int64) ([]ToolCall, error) {
	query := `SELECT id, session_id, name, args_json, result_json, created_at FROM tool_calls WHERE session_id = ? ORDER BY created_at, id`
	var calls []ToolCall
	if err := sqlscan.Select(ctx, db, &calls, query, sessionID); err != nil {
		return nil, err
	}
	return calls, nil
}
