package api

import (
	"net/http"
	"strings"

	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/storage"
	"github.com/go-chi/chi/v5"
)

// RestockRequest is the body of POST /books/{isbn}/restock.
type RestockRequest struct {
	Qty int `json:"qty" validate:"required"`
}

// handleListBooks lists the catalog, or searches it when q is given.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		books []storage.Book
		err   error
	)
	if query == "" {
		books, err = s.desk.ListBooks(ctx)
	} else {
		var by desk.SearchField
		by, err = desk.ParseSearchField(r.URL.Query().Get("by"))
		if err == nil {
			books, err = s.desk.FindBooks(ctx, query, by)
		}
	}
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, books, s.logger)
}

func (s *Server) handleRestock(w http.ResponseWriter, r *http.Request) {
	var req RestockRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	level, err := s.desk.RestockBook(r.Context(), chi.URLParam(r, "isbn"), req.Qty)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, level, s.logger)
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	report, err := s.desk.InventorySummary(r.Context())
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, report, s.logger)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	view, err := s.desk.OrderStatus(r.Context(), id)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, view, s.logger)
}
