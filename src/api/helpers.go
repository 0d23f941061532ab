package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON body into v and validates it.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return desk.InvalidArgument("request body is required")
		}
		return desk.InvalidArgument("invalid request body: %s", err.Error())
	}
	if err := s.validate.Struct(v); err != nil {
		return desk.InvalidArgument("%s", agent.ValidationMessage(err))
	}
	return nil
}

// idParam parses a positive integer path parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, desk.InvalidArgument("invalid %s", name)
	}
	return id, nil
}
