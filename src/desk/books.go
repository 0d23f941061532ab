package desk

import (
	"context"
	"database/sql"
	"strings"

	"github.com/elee1766/bookdesk/src/events"
	"github.com/elee1766/bookdesk/src/storage"
)

// SearchField selects which book attribute FindBooks matches against.
type SearchField string

const (
	ByTitle  SearchField = "title"
	ByAuthor SearchField = "author"
)

// ParseSearchField parses a search field, defaulting to ByTitle when s is empty.
func ParseSearchField(s string) (SearchField, error) {
	switch SearchField(strings.ToLower(strings.TrimSpace(s))) {
	case "", ByTitle:
		return ByTitle, nil
	case ByAuthor:
		return ByAuthor, nil
	}
	return "", InvalidArgument("Invalid 'by' parameter. Must be 'title' or 'author'.")
}

// StockLevel is the stock of a book after a change.
type StockLevel struct {
	ISBN  string `json:"isbn"`
	Stock int    `json:"stock"`
}

// PriceUpdate is the price of a book after a change.
type PriceUpdate struct {
	ISBN  string  `json:"isbn"`
	Price float64 `json:"price"`
}

// FindBooks returns books whose title or author contains query, ignoring case.
// No match is an empty list, not an error.
func (s *Service) FindBooks(ctx context.Context, query string, by SearchField) ([]storage.Book, error) {
	var books []storage.Book
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		switch by {
		case ByTitle:
			books, err = storage.SearchBooksByTitle(ctx, conn, query)
		case ByAuthor:
			books, err = storage.SearchBooksByAuthor(ctx, conn, query)
		default:
			return InvalidArgument("Invalid 'by' parameter. Must be 'title' or 'author'.")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []storage.Book{}
	}
	return books, nil
}

// ListBooks returns the whole catalog.
func (s *Service) ListBooks(ctx context.Context) ([]storage.Book, error) {
	var books []storage.Book
	err := s.withConn(ctx, func(conn *sql.Conn) (err error) {
		books, err = storage.ListBooks(ctx, conn)
		return err
	})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []storage.Book{}
	}
	return books, nil
}

// ResolveBook finds a book by exact ISBN, falling back to a case-insensitive title
// substring match in which hyphens and underscores count as spaces.
func (s *Service) ResolveBook(ctx context.Context, identifier string) (*storage.Book, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, InvalidArgument("a book isbn or title is required")
	}

	var book *storage.Book
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		book, err = storage.GetBook(ctx, conn, identifier)
		if err != nil || book != nil {
			return err
		}
		book, err = storage.FindBookByLooseTitle(ctx, conn, identifier)
		return err
	})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, NotFound("Book %s not found", identifier)
	}
	return book, nil
}

// RestockBook adds qty units to a book. The store never holds negative stock, so a
// negative qty larger than the current stock is refused with InsufficientStock.
func (s *Service) RestockBook(ctx context.Context, isbn string, qty int) (*StockLevel, error) {
	return s.changeStock(ctx, isbn, qty, "restock")
}

// AdjustStock applies a signed stock change, failing with InsufficientStock if the
// result would be negative. Stock is unchanged on failure.
func (s *Service) AdjustStock(ctx context.Context, isbn string, delta int) (*StockLevel, error) {
	return s.changeStock(ctx, isbn, delta, "adjust")
}

func (s *Service) changeStock(ctx context.Context, isbn string, delta int, reason string) (*StockLevel, error) {
	var level *StockLevel
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		book, err := storage.GetBook(ctx, conn, isbn)
		if err != nil {
			return err
		}
		if book == nil {
			return NotFound("Book %s not found", isbn)
		}

		ok, err := storage.ApplyStockDelta(ctx, conn, isbn, delta)
		if err != nil {
			return err
		}
		if !ok {
			return InsufficientStock("Not enough stock for %s", book.Title)
		}

		book, err = storage.GetBook(ctx, conn, isbn)
		if err != nil {
			return err
		}
		level = &StockLevel{ISBN: isbn, Stock: book.Stock}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock changed", "isbn", isbn, "delta", delta, "stock", level.Stock, "reason", reason)
	s.publish(ctx, events.New(events.StockChanged, isbn, map[string]any{
		"isbn":   isbn,
		"delta":  delta,
		"stock":  level.Stock,
		"reason": reason,
	}))
	return level, nil
}

// UpdatePrice overwrites the price of a book. Range checks belong to the caller.
func (s *Service) UpdatePrice(ctx context.Context, isbn string, price float64) (*PriceUpdate, error) {
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		ok, err := storage.SetBookPrice(ctx, conn, isbn, price)
		if err != nil {
			return err
		}
		if !ok {
			return NotFound("Book %s not found", isbn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("price updated", "isbn", isbn, "price", price)
	s.publish(ctx, events.New(events.PriceChanged, isbn, map[string]any{"isbn": isbn, "price": price}))
	return &PriceUpdate{ISBN: isbn, Price: price}, nil
}
