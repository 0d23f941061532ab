// Package seed loads a book and customer catalog into the store.
package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elee1766/bookdesk/src/storage"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
)

//go:embed catalog.json
var defaultCatalog []byte

// Catalog is the seed data for a store.
type Catalog struct {
	Books     []CatalogBook     `json:"books" validate:"dive"`
	Customers []CatalogCustomer `json:"customers" validate:"dive"`
}

type CatalogBook struct {
	ISBN   string  `json:"isbn" validate:"required"`
	Title  string  `json:"title" validate:"required"`
	Author string  `json:"author" validate:"required"`
	Price  float64 `json:"price" validate:"gt=0"`
	Stock  int     `json:"stock" validate:"gte=0"`
}

type CatalogCustomer struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Stats counts what Apply wrote.
type Stats struct {
	Books     int `json:"books"`
	Customers int `json:"customers"`
}

var validate = validator.New()

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from path on fsys.
func LoadFile(fsys afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog. ISBNs and emails must be unique.
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := validate.Struct(&catalog); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	isbns := make(map[string]bool, len(catalog.Books))
	for _, b := range catalog.Books {
		if isbns[b.ISBN] {
			return nil, fmt.Errorf("invalid catalog: duplicate isbn %s", b.ISBN)
		}
		isbns[b.ISBN] = true
	}
	emails := make(map[string]bool, len(catalog.Customers))
	for _, c := range catalog.Customers {
		key := strings.ToLower(c.Email)
		if emails[key] {
			return nil, fmt.Errorf("invalid catalog: duplicate email %s", c.Email)
		}
		emails[key] = true
	}
	return &catalog, nil
}

// Apply upserts the catalog in one transaction. With reset, existing books, customers
// and orders are removed first; chat sessions are kept.
func Apply(ctx context.Context, db *sql.DB, catalog *Catalog, reset bool) (*Stats, error) {
	stats := &Stats{}
	err := storage.WithConn(ctx, db, func(conn *sql.Conn) error {
		return storage.WithTx(ctx, conn, func(tx *sql.Tx) error {
			if reset {
				if err := storage.ResetCatalog(ctx, tx); err != nil {
					return fmt.Errorf("failed to reset catalog: %w", err)
				}
			}
			for _, b := range catalog.Books {
				book := storage.Book{ISBN: b.ISBN, Title: b.Title, Author: b.Author, Price: b.Price, Stock: b.Stock}
				if err := storage.UpsertBook(ctx, tx, &book); err != nil {
					return fmt.Errorf("failed to seed book %s: %w", b.ISBN, err)
				}
				stats.Books++
			}
			for _, c := range catalog.Customers {
				customer := storage.Customer{Name: c.Name, Email: c.Email}
				if err := storage.UpsertCustomer(ctx, tx, &customer); err != nil {
					return fmt.Errorf("failed to seed customer %s: %w", c.Email, err)
				}
				stats.Customers++
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
