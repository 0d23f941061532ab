package tool_findbooks

import (
	"context"
	"strings"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/deskagent/toolsutil"
	"github.com/elee1766/bookdesk/src/storage"
)

// Tool name constant
const Name = "find_books"

const findBooksPrompt = `Find books in the catalog by title or author. Matching is a case-insensitive substring match. Returns a list of books with isbn, title, author, price and stock; an empty list means nothing matched.`

// FindBooksInput represents the input for searching the catalog
type FindBooksInput struct {
	Q  string `json:"q" required:"true" description:"Text to look for in the title or author"`
	By string `json:"by,omitempty" enum:"title,author" default:"title" description:"Which field to search"`
}

func makeFindBooksHandler(svc *desk.Service) func(context.Context, FindBooksInput) ([]storage.Book, error) {
	return func(ctx context.Context, input FindBooksInput) ([]storage.Book, error) {
		logger := toolsutil.GetLogger()

		if strings.TrimSpace(input.Q) == "" {
			return nil, desk.InvalidArgument("You must provide a search query string (q).")
		}
		by, err := desk.ParseSearchField(input.By)
		if err != nil {
			return nil, err
		}

		books, err := svc.FindBooks(ctx, input.Q, by)
		if err != nil {
			logger.Error("find books failed", "q", input.Q, "by", by, "error", err)
			return nil, err
		}
		logger.Info("books found", "q", input.Q, "by", by, "count", len(books))
		return books, nil
	}
}

// Tool returns the find_books tool definition using GenericTool
func Tool(svc *desk.Service) (agent.Tool, error) {
	return agent.NewGenericTool(Name, findBooksPrompt, makeFindBooksHandler(svc))
}
