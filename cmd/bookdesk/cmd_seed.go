package main

import (
	"context"
	"fmt"

	"github.com/elee1766/bookdesk/src/seed"
	"github.com/spf13/afero"
)

// SeedCmd loads a catalog into the database
type SeedCmd struct {
	File  string `short:"f" type:"path" help:"Catalog JSON file (defaults to the bundled catalog)"`
	Reset bool   `help:"Remove existing books, customers and orders first"`
}

func (c *SeedCmd) Run(cli *CLI) error {
	a, _, logger, err := cli.newApp()
	if err != nil {
		return err
	}
	defer a.Shutdown()

	catalog, err := c.catalog()
	if err != nil {
		return err
	}

	store, err := a.Store()
	if err != nil {
		return err
	}
	stats, err := seed.Apply(context.Background(), store.DB.DB(), catalog, c.Reset)
	if err != nil {
		return err
	}

	logger.Debug("catalog applied", "books", stats.Books, "customers", stats.Customers, "reset", c.Reset)
	fmt.Fprintf(cli.Out, "Seeded %d books and %d customers into %s\n", stats.Books, stats.Customers, store.Path())
	return nil
}

func (c *SeedCmd) catalog() (*seed.Catalog, error) {
	if c.File == "" {
		return seed.Default()
	}
	return seed.LoadFile(afero.NewOsFs(), c.File)
}
