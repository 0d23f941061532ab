package desk

import (
	"context"
	"database/sql"
	"strings"

	"github.com/elee1766/bookdesk/src/storage"
)

// CreateSession starts a chat session. A blank name is stored as no name.
func (s *Service) CreateSession(ctx context.Context, name string) (*storage.Session, error) {
	session := &storage.Session{}
	if name = strings.TrimSpace(name); name != "" {
		session.Name = &name
	}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		return storage.CreateSession(ctx, conn, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns a session or NotFound.
func (s *Service) GetSession(ctx context.Context, id int64) (*storage.Session, error) {
	var session *storage.Session
	err := s.withConn(ctx, func(conn *sql.Conn) (err error) {
		session, err = storage.GetSessionByID(ctx, conn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, NotFound("Session %d not found", id)
	}
	return session, nil
}

// ListSessions returns all sessions, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]storage.Session, error) {
	var sessions []storage.Session
	err := s.withConn(ctx, func(conn *sql.Conn) (err error) {
		sessions, err = storage.ListSessions(ctx, conn)
		return err
	})
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []storage.Session{}
	}
	return sessions, nil
}

// DeleteSession removes a session together with its messages and tool call log.
// Deleting a session that does not exist succeeds.
func (s *Service) DeleteSession(ctx context.Context, id int64) error {
	var existed bool
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		return storage.WithTx(ctx, conn, func(tx *sql.Tx) (err error) {
			existed, err = storage.DeleteSession(ctx, tx, id)
			return err
		})
	})
	if err != nil {
		return err
	}
	if !existed {
		s.logger.Debug("session already gone", "session_id", id)
	}
	return nil
}

// AddMessage appends a message to a session.
func (s *Service) AddMessage(ctx context.Context, sessionID int64, role storage.Role, content string) (*storage.Message, error) {
	if !role.Valid() {
		return nil, InvalidArgument("invalid message role %q", string(role))
	}
	msg := &storage.Message{SessionID: sessionID, Role: role, Content: content}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		return storage.CreateMessage(ctx, conn, msg)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessages returns a session's messages oldest first. An unknown session has none.
func (s *Service) GetMessages(ctx context.Context, sessionID int64) ([]storage.Message, error) {
	var messages []storage.Message
	err := s.withConn(ctx, func(conn *sql.Conn) (err error) {
		messages, err = storage.GetMessagesBySessionID(ctx, conn, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []storage.Message{}
	}
	return messages, nil
}

// LogToolCall records a tool invocation and its JSON result against a session.
func (s *Service) LogToolCall(ctx context.Context, sessionID int64, name, argsJSON, resultJSON string) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		return storage.CreateToolCall(ctx, conn, &storage.ToolCall{
			SessionID:  sessionID,
			Name:       name,
			ArgsJSON:   argsJSON,
			ResultJSON: resultJSON,
		})
	})
}

// ListToolCalls returns the tool calls logged for a session.
func (s *Service) ListToolCalls(ctx context.Context, sessionID int64) ([]storage.ToolCall, error) {
	var calls []storage.ToolCall
	err := s.withConn(ctx, func(conn *sql.Conn) (err error) {
		calls, err = storage.GetToolCallsBySessionID(ctx, conn, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if calls == nil {
		calls = []storage.ToolCall{}
	}
	return calls, nil
}
