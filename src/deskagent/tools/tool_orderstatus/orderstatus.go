package tool_orderstatus

import (
	"context"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/desk"
)

// Tool name constant
const Name = "order_status"

const orderStatusPrompt = `Return an order's details: customer name, creation time, items with titles, quantities and unit prices, and the order total.`

// OrderStatusInput represents the input for looking up an order
type OrderStatusInput struct {
	OrderID int64 `json:"order_id" required:"true" description:"ID of the order"`
}

// Tool returns the order_status tool definition using GenericTool
func Tool(svc *desk.Service) (agent.Tool, error) {
	return agent.NewGenericTool(Name, orderStatusPrompt, func(ctx context.Context, input OrderStatusInput) (*desk.OrderView, error) {
		if input.OrderID <= 0 {
			return nil, desk.InvalidArgument("order_id must be a positive integer.")
		}
		return svc.OrderStatus(ctx, input.OrderID)
	})
}
