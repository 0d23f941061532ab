package api

import (
	"net/http"

	"github.com/elee1766/bookdesk/src/executor"
)

// ChatRequest is the body of POST /chat. Without a session id a new session is started.
type ChatRequest struct {
	SessionID *int64 `json:"session_id" validate:"omitempty,gt=0"`
	Message   string `json:"message" validate:"required"`
}

// ChatResponse is the answer to a chat turn.
type ChatResponse struct {
	SessionID int64  `json:"session_id"`
	Answer    string `json:"answer"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	result, err := s.turns.Turn(r.Context(), executor.TurnRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{SessionID: result.SessionID, Answer: result.Answer}, s.logger)
}
