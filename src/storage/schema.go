package storage

import "time"

type Book struct {
	ISBN   string  `json:"isbn" db:"isbn"`
	Title  string  `json:"title" db:"title"`
	Author string  `json:"author" db:"author"`
	Price  float64 `json:"price" db:"price"`
	Stock  int     `json:"stock" db:"stock"`
}

type Customer struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

type Order struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// OrderItem snapshots the book price at the time the order was placed.
type OrderItem struct {
	ID        int64   `json:"id" db:"id"`
	OrderID   int64   `json:"order_id" db:"order_id"`
	ISBN      string  `json:"isbn" db:"isbn"`
	Qty       int     `json:"qty" db:"qty"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
}

// OrderItemDetail is an order item joined with its book title.
type OrderItemDetail struct {
	ISBN      string  `json:"isbn" db:"isbn"`
	Title     string  `json:"title" db:"title"`
	Qty       int     `json:"qty" db:"qty"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
}

// OrderHeader is an order joined with its customer name.
type OrderHeader struct {
	ID           int64     `db:"id"`
	CustomerName string    `db:"customer_name"`
	CreatedAt    time.Time `db:"created_at"`
}

// Session is a chat conversation. Name is optional.
type Session struct {
	ID        int64     `json:"id" db:"id"`
	Name      *string   `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Message struct {
	ID        int64     `json:"id" db:"id"`
	SessionID int64     `json:"session_id" db:"session_id"`
	Role      Role      `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ToolCall struct {
	ID         int64     `json:"id" db:"id"`
	SessionID  int64     `json:"session_id" db:"session_id"`
	Name       string    `json:"name" db:"name"`
	ArgsJSON   string    `json:"args_json" db:"args_json"`
	ResultJSON string    `json:"result_json" db:"result_json"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
