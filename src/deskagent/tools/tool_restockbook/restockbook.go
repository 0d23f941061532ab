package tool_restockbook

import (
	"context"
	"errors"
	"strings"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/deskagent/toolsutil"
)

// Tool name constant
const Name = "restock_book"

const restockBookPrompt = `Adjust the stock of a book. qty may be positive (add copies) or negative (remove copies, e.g. after a sale or damage). Stock can never go below zero. If the isbn is not known it is tried as a title.`

// RestockBookInput represents the input for adjusting stock
type RestockBookInput struct {
	ISBN string `json:"isbn" required:"true" description:"ISBN of the book, or its title"`
	Qty  *int   `json:"qty" required:"true" description:"Non-zero change in stock"`
}

func makeRestockBookHandler(svc *desk.Service) func(context.Context, RestockBookInput) (*desk.StockLevel, error) {
	return func(ctx context.Context, input RestockBookInput) (*desk.StockLevel, error) {
		logger := toolsutil.GetLogger()

		isbn := strings.TrimSpace(input.ISBN)
		if isbn == "" {
			return nil, desk.InvalidArgument("isbn must be a non-empty string.")
		}
		if input.Qty == nil {
			return nil, desk.InvalidArgument("'qty' parameter is required and must be a non-zero integer.")
		}
		if *input.Qty == 0 {
			return nil, desk.InvalidArgument("qty must be a non-zero integer (positive to add, negative to remove).")
		}

		level, err := svc.AdjustStock(ctx, isbn, *input.Qty)
		if errors.Is(err, desk.ErrNotFound) {
			book, rerr := svc.ResolveBook(ctx, isbn)
			if rerr != nil {
				return nil, err
			}
			logger.Info("resolved title to isbn", "title", isbn, "isbn", book.ISBN)
			level, err = svc.AdjustStock(ctx, book.ISBN, *input.Qty)
		}
		if err != nil {
			logger.Warn("restock failed", "isbn", isbn, "qty", *input.Qty, "error", err)
			return nil, err
		}
		return level, nil
	}
}

// Tool returns the restock_book tool definition using GenericTool
func Tool(svc *desk.Service) (agent.Tool, error) {
	return agent.NewGenericTool(Name, restockBookPrompt, makeRestockBookHandler(svc))
}
