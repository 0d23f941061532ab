package tool_createorder

import (
	"context"
	"errors"
	"strings"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/deskagent/toolsutil"
)

// Tool name constant
const Name = "create_order"

const createOrderPrompt = `Create a customer order. Always provide both customer_id and items.

items is a list of {"isbn": string, "qty": number}. If you only know a book's title you may pass the title in place of the isbn and it will be resolved against the catalog.

Items are applied in order. If one fails (unknown book, not enough stock) the items before it have already been applied.`

// OrderItemInput is one requested line of an order
type OrderItemInput struct {
	ISBN string             `json:"isbn" required:"true" description:"ISBN of the book, or its title"`
	Qty  toolsutil.Quantity `json:"qty" required:"true"`
}

// CreateOrderInput represents the input for creating an order
type CreateOrderInput struct {
	CustomerID int64            `json:"customer_id" required:"true" description:"ID of the customer placing the order" validate:"gt=0"`
	Items      []OrderItemInput `json:"items" required:"true" minItems:"1" description:"Books and quantities to order"`
}

func makeCreateOrderHandler(svc *desk.Service) func(context.Context, CreateOrderInput) (*desk.OrderReceipt, error) {
	return func(ctx context.Context, input CreateOrderInput) (*desk.OrderReceipt, error) {
		logger := toolsutil.GetLogger()

		if len(input.Items) == 0 {
			return nil, desk.InvalidArgument("'items' parameter is required and must be a non-empty list of {isbn, qty} objects.")
		}

		lines := make([]desk.OrderLine, 0, len(input.Items))
		for _, item := range input.Items {
			identifier := strings.TrimSpace(item.ISBN)
			if identifier == "" {
				return nil, desk.InvalidArgument("Each item must include an 'isbn' (or title) and 'qty'.")
			}

			book, err := svc.ResolveBook(ctx, identifier)
			if err != nil {
				if errors.Is(err, desk.ErrNotFound) {
					return nil, desk.NotFound("Book '%s' not found", identifier)
				}
				return nil, err
			}

			qty, ok := item.Qty.Int()
			if !ok {
				return nil, desk.InvalidArgument("Invalid qty for item; must be a number.")
			}
			lines = append(lines, desk.OrderLine{ISBN: book.ISBN, Qty: qty})
		}

		receipt, err := svc.CreateOrder(ctx, input.CustomerID, lines)
		if err != nil {
			logger.Warn("create order failed", "customer_id", input.CustomerID, "error", err)
			return nil, err
		}
		logger.Info("order created", "order_id", receipt.OrderID, "items", len(receipt.Items))
		return receipt, nil
	}
}

// Tool returns the create_order tool definition using GenericTool
func Tool(svc *desk.Service) (agent.Tool, error) {
	return agent.NewGenericTool(Name, createOrderPrompt, makeCreateOrderHandler(svc))
}
