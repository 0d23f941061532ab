package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
)

// GetCustomer retrieves a customer by id. Returns nil if it does not exist.
func GetCustomer(ctx context.Context, db sqlscan.Querier, id int64) (*Customer, error) {
	var c Customer
	err := sqlscan.Get(ctx, db, &c, `SELECT id, name, email FROM customers WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListCustomers returns all customers by id.
func ListCustomers(ctx context.Context, db sqlscan.Querier) ([]Customer, error) {
	var customers []Customer
	if err := sqlscan.Select(ctx, db, &customers, `SELECT id, name, email FROM customers ORDER BY id`); err != nil {
		return nil, err
	}
	return customers, nil
}

// UpsertCustomer inserts a customer keyed by email, updating the name if the email exists.
// The customer's ID is set from the stored row.
func UpsertCustomer(ctx context.Context, db ExecQuerier, c *Customer) error {
	query := `INSERT INTO customers (name, email) VALUES (?, ?)
		ON CONFLICT(email) DO UPDATE SET name = excluded.name`
	if _, err := db.ExecContext(ctx, query, c.Name, c.Email); err != nil {
		return err
	}
	return sqlscan.Get(ctx, db, &c.ID, `SELECT id FROM customers WHERE email = ?`, c.Email)
}

// CreateOrder inserts an order row and sets its ID.
func CreateOrder(ctx context.Context, db Execer, order *Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	res, err := db.ExecContext(ctx, `INSERT INTO orders (customer_id, created_at) VALUES (?, ?)`, order.CustomerID, order.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	order.ID = id
	return nil
}

// CreateOrderItem inserts an order item row and sets its ID.
func CreateOrderItem(ctx context.Context, db Execer, item *OrderItem) error {
	query := `INSERT INTO order_items (order_id, isbn, qty, unit_price) VALUES (?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query, item.OrderID, item.ISBN, item.Qty, item.UnitPrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

// GetOrderHeader retrieves an order with its customer's name. Returns nil if it does not exist.
func GetOrderHeader(ctx context.Context, db sqlscan.Querier, orderID int64) (*OrderHeader, error) {
	query := `SELECT o.id, c.name AS customer_name, o.created_at
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.id = ?`
	var h OrderHeader
	err := sqlscan.Get(ctx, db, &h, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// GetOrderItems returns the raw item rows of an order in insertion order.
func GetOrderItems(ctx context.Context, db sqlscan.Querier, orderID int64) ([]OrderItem, error) {
	var items []OrderItem
	query := `SELECT id, order_id, isbn, qty, unit_price FROM order_items WHERE order_id = ? ORDER BY id`
	if err := sqlscan.Select(ctx, db, &items, query, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

// GetOrderItemDetails returns the items of an order joined with book titles.
func GetOrderItemDetails(ctx context.Context, db sqlscan.Querier, orderID int64) ([]OrderItemDetail, error) {
	query := `SELECT oi.isbn, b.title, oi.qty, oi.unit_price
		FROM order_items oi JOIN books b ON b.isbn = oi.isbn
		WHERE oi.order_id = ? ORDER BY oi.id`
	var items []OrderItemDetail
	if err := sqlscan.Select(ctx, db, &items, query, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

// ResetCatalog removes every order, customer and book.
func ResetCatalog(ctx context.Context, db Execer) error {
	for _, stmt := range []string{
		`DELETE FROM order_items`,
		`DELETE FROM orders`,
		`DELETE FROM customers`,
		`DELETE FROM books`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
