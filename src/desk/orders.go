package desk

import (
	"context"
	"database/sql"
	"math"
	"strconv"
	"time"

	"github.com/elee1766/bookdesk/src/events"
	"github.com/elee1766/bookdesk/src/storage"
)

// OrderLine is one requested item of an order.
type OrderLine struct {
	ISBN string `json:"isbn"`
	Qty  int    `json:"qty"`
}

// ReceiptItem echoes an applied order line with its snapshotted price.
type ReceiptItem struct {
	ISBN      string  `json:"isbn"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderReceipt is the result of a successful CreateOrder.
type OrderReceipt struct {
	OrderID int64         `json:"order_id"`
	Items   []ReceiptItem `json:"items"`
}

// OrderView is the denormalized status of an order.
type OrderView struct {
	OrderID   int64                     `json:"order_id"`
	Customer  string                    `json:"customer"`
	CreatedAt time.Time                 `json:"created_at"`
	Items     []storage.OrderItemDetail `json:"items"`
	Total     float64                   `json:"total"`
}

// CreateOrder places an order for a customer.
//
// Lines are applied one at a time, each with its own statements: the order row is
// written first, then every line decrements stock and records an item priced at the
// book's current price. If a later line fails (unknown book, not enough stock) the
// earlier lines and the order row stay applied and the error is returned.
func (s *Service) CreateOrder(ctx context.Context, customerID int64, lines []OrderLine) (*OrderReceipt, error) {
	if len(lines) == 0 {
		return nil, InvalidArgument("an order needs at least one item")
	}
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, InvalidArgument("qty for %s must be a positive integer", line.ISBN)
		}
	}

	var receipt *OrderReceipt
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		customer, err := storage.GetCustomer(ctx, conn, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return NotFound("Customer %d not found", customerID)
		}

		order := &storage.Order{CustomerID: customerID}
		if err := storage.CreateOrder(ctx, conn, order); err != nil {
			return err
		}
		receipt = &OrderReceipt{OrderID: order.ID, Items: make([]ReceiptItem, 0, len(lines))}

		for _, line := range lines {
			if err := s.applyOrderLine(ctx, conn, order.ID, line, receipt); err != nil {
				s.logger.Warn("order partially applied", "order_id", order.ID, "applied_items", len(receipt.Items), "error", err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created", "order_id", receipt.OrderID, "customer_id", customerID, "items", len(receipt.Items))
	s.publish(ctx, events.New(events.OrderCreated, strconv.FormatInt(receipt.OrderID, 10), map[string]any{
		"order_id":    receipt.OrderID,
		"customer_id": customerID,
		"items":       receipt.Items,
	}))
	return receipt, nil
}

func (s *Service) applyOrderLine(ctx context.Context, conn *sql.Conn, orderID int64, line OrderLine, receipt *OrderReceipt) error {
	book, err := storage.GetBook(ctx, conn, line.ISBN)
	if err != nil {
		return err
	}
	if book == nil {
		return NotFound("Book %s not found", line.ISBN)
	}
	if line.Qty > book.Stock {
		return InsufficientStock("Not enough stock for %s", book.Title)
	}

	ok, err := storage.ApplyStockDelta(ctx, conn, book.ISBN, -line.Qty)
	if err != nil {
		return err
	}
	if !ok {
		return InsufficientStock("Not enough stock for %s", book.Title)
	}

	item := &storage.OrderItem{OrderID: orderID, ISBN: book.ISBN, Qty: line.Qty, UnitPrice: book.Price}
	if err := storage.CreateOrderItem(ctx, conn, item); err != nil {
		return err
	}
	receipt.Items = append(receipt.Items, ReceiptItem{ISBN: item.ISBN, Qty: item.Qty, UnitPrice: item.UnitPrice})
	return nil
}

// OrderStatus returns an order with its customer name, item titles and total.
func (s *Service) OrderStatus(ctx context.Context, orderID int64) (*OrderView, error) {
	var view *OrderView
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		header, err := storage.GetOrderHeader(ctx, conn, orderID)
		if err != nil {
			return err
		}
		if header == nil {
			return NotFound("Order %d not found", orderID)
		}

		items, err := storage.GetOrderItemDetails(ctx, conn, orderID)
		if err != nil {
			return err
		}
		if items == nil {
			items = []storage.OrderItemDetail{}
		}

		var total float64
		for _, it := range items {
			total += float64(it.Qty) * it.UnitPrice
		}

		view = &OrderView{
			OrderID:   header.ID,
			Customer:  header.CustomerName,
			CreatedAt: header.CreatedAt,
			Items:     items,
			Total:     math.Round(total*100) / 100,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
