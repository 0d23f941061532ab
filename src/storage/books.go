package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/georgysavva/scany/v2/sqlscan"
)

const bookColumns = `isbn, title, author, price, stock`

// GetBook retrieves a book by ISBN. Returns nil if it does not exist.
func GetBook(ctx context.Context, db sqlscan.Querier, isbn string) (*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = ?`
	var b Book
	err := sqlscan.Get(ctx, db, &b, query, isbn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// ListBooks returns the whole catalog ordered by title.
func ListBooks(ctx context.Context, db sqlscan.Querier) ([]Book, error) {
	var books []Book
	err := sqlscan.Select(ctx, db, &books, `SELECT `+bookColumns+` FROM books ORDER BY title, isbn`)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// SearchBooksByTitle returns books whose title contains q, ignoring case.
func SearchBooksByTitle(ctx context.Context, db sqlscan.Querier, q string) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE instr(lower(title), lower(?)) > 0 ORDER BY title, isbn`
	var books []Book
	if err := sqlscan.Select(ctx, db, &books, query, q); err != nil {
		return nil, err
	}
	return books, nil
}

// SearchBooksByAuthor returns books whose author contains q, ignoring case.
func SearchBooksByAuthor(ctx context.Context, db sqlscan.Querier, q string) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE instr(lower(author), lower(?)) > 0 ORDER BY title, isbn`
	var books []Book
	if err := sqlscan.Select(ctx, db, &books, query, q); err != nil {
		return nil, err
	}
	return books, nil
}

// FindBookByLooseTitle returns the first book whose title contains q when case is
// ignored and hyphens and underscores are treated as spaces. Returns nil if none match.
func FindBookByLooseTitle(ctx context.Context, db sqlscan.Querier, q string) (*Book, error) {
	needle := looseKey(q)
	if needle == "" {
		return nil, nil
	}
	query := `SELECT ` + bookColumns + ` FROM books
		WHERE instr(replace(replace(lower(title), '-', ' '), '_', ' '), ?) > 0
		ORDER BY title, isbn LIMIT 1`
	var b Book
	err := sqlscan.Get(ctx, db, &b, query, needle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func looseKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", " ", "_", " ").Replace(s)
}

// UpsertBook inserts a book or replaces the title, author, price and stock of an existing one.
func UpsertBook(ctx context.Context, db Execer, b *Book) error {
	query := `INSERT INTO books (isbn, title, author, price, stock) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(isbn) DO UPDATE SET title = excluded.title, author = excluded.author,
		price = excluded.price, stock = excluded.stock`
	_, err := db.ExecContext(ctx, query, b.ISBN, b.Title, b.Author, b.Price, b.Stock)
	return err
}

// ApplyStockDelta adds delta to the stock of isbn unless the result would be negative.
// It reports whether a row was changed.
func ApplyStockDelta(ctx context.Context, db Execer, isbn string, delta int) (bool, error) {
	res, err := db.ExecContext(ctx, `UPDATE books SET stock = stock + ? WHERE isbn = ? AND stock + ? >= 0`, delta, isbn, delta)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetBookPrice overwrites the price of isbn. It reports whether a row was changed.
func SetBookPrice(ctx context.Context, db Execer, isbn string, price float64) (bool, error) {
	res, err := db.ExecContext(ctx, `UPDATE books SET price = ? WHERE isbn = ?`, price, isbn)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InventoryTotals is the catalog-wide title and unit count.
type InventoryTotals struct {
	Titles int `db:"titles"`
	Stock  int `db:"stock"`
}

// GetInventoryTotals counts titles and sums stock across the catalog.
func GetInventoryTotals(ctx context.Context, db sqlscan.Querier) (*InventoryTotals, error) {
	var t InventoryTotals
	err := sqlscan.Get(ctx, db, &t, `SELECT COUNT(*) AS titles, COALESCE(SUM(stock), 0) AS stock FROM books`)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListLowStockBooks returns books with stock at or below threshold, lowest first.
func ListLowStockBooks(ctx context.Context, db sqlscan.Querier, threshold int) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE stock <= ? ORDER BY stock, isbn`
	var books []Book
	if err := sqlscan.Select(ctx, db, &books, query, threshold); err != nil {
		return nil, err
	}
	return books, nil
}
