package api

import (
	"net/http"
	"time"

	"github.com/elee1766/bookdesk/src/storage"
)

// MessageResponse is a stored chat message as returned by the API.
type MessageResponse struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.desk.CreateSession(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, session, s.logger)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.desk.ListSessions(r.Context())
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, sessions, s.logger)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	if err := s.desk.DeleteSession(r.Context(), id); err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"}, s.logger)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	messages, err := s.desk.GetMessages(r.Context(), id)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponses(messages), s.logger)
}

func toMessageResponses(messages []storage.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageResponse{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
