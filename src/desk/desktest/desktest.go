// Package desktest provides a seeded temporary store for tests.
package desktest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/elee1766/bookdesk/src/storage"
	"github.com/stretchr/testify/require"
)

const (
	ISBNPhilosopher = "978-0-7475-3269-9"
	ISBNChamber     = "978-0-7475-3849-3"
	ISBNHobbit      = "978-0-261-10221-7"
	ISBNUnknown     = "978-0-00-000000-0"
)

// Books is the fixture catalog. Stock levels are 10, 5, 2 and 0.
func Books() []storage.Book {
	return []storage.Book{
		{ISBN: ISBNPhilosopher, Title: "Harry Potter and the Philosopher's Stone", Author: "J.K. Rowling", Price: 8.99, Stock: 10},
		{ISBN: ISBNChamber, Title: "Harry Potter and the Chamber of Secrets", Author: "J.K. Rowling", Price: 9.99, Stock: 5},
		{ISBN: ISBNHobbit, Title: "The Hobbit", Author: "J.R.R. Tolkien", Price: 10.50, Stock: 2},
		{ISBN: ISBNUnknown, Title: "Unknown Isbn", Author: "Anonymous", Price: 5.00, Stock: 0},
	}
}

// Fixture is an open store seeded with Books and one customer.
type Fixture struct {
	DB         *storage.DB
	CustomerID int64
}

// Open creates a migrated store in a temp dir and seeds it. The store is closed on cleanup.
func Open(t testing.TB) *Fixture {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "bookdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, b := range Books() {
		b := b
		require.NoError(t, storage.UpsertBook(ctx, db.DB(), &b))
	}
	customer := &storage.Customer{Name: "Ada Lovelace", Email: "ada@example.com"}
	require.NoError(t, storage.UpsertCustomer(ctx, db.DB(), customer))

	return &Fixture{DB: db, CustomerID: customer.ID}
}

// Stock reads the current stock of a book, failing the test if it is missing.
func (f *Fixture) Stock(t testing.TB, isbn string) int {
	t.Helper()
	book, err := storage.GetBook(context.Background(), f.DB.DB(), isbn)
	require.NoError(t, err)
	require.NotNil(t, book, "book %s", isbn)
	return book.Stock
}
