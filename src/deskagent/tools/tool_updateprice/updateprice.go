package tool_updateprice

import (
	"context"
	"strings"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/deskagent/toolsutil"
)

// Tool name constant
const Name = "update_price"

const updatePricePrompt = `Update the price of a book. price must be a positive number.`

// UpdatePriceInput represents the input for changing a price
type UpdatePriceInput struct {
	ISBN  string   `json:"isbn" required:"true" description:"ISBN of the book"`
	Price *float64 `json:"price" required:"true" description:"New price"`
}

func makeUpdatePriceHandler(svc *desk.Service) func(context.Context, UpdatePriceInput) (*desk.PriceUpdate, error) {
	return func(ctx context.Context, input UpdatePriceInput) (*desk.PriceUpdate, error) {
		isbn := strings.TrimSpace(input.ISBN)
		if isbn == "" {
			return nil, desk.InvalidArgument("isbn must be a non-empty string.")
		}
		if input.Price == nil || *input.Price <= 0 {
			return nil, desk.InvalidArgument("price must be a positive number.")
		}

		update, err := svc.UpdatePrice(ctx, isbn, *input.Price)
		if err != nil {
			toolsutil.GetLogger().Warn("update price failed", "isbn", isbn, "error", err)
			return nil, err
		}
		return update, nil
	}
}

// Tool returns the update_price tool definition using GenericTool
func Tool(svc *desk.Service) (agent.Tool, error) {
	return agent.NewGenericTool(Name, updatePricePrompt, makeUpdatePriceHandler(svc))
}
