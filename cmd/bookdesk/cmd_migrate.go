package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/elee1766/bookdesk/src/storage"
)

// MigrateCmd manages database migrations
type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" help:"Run pending migrations"`
	Status MigrateStatusCmd `cmd:"" help:"Show migration status"`
}

// MigrateUpCmd runs pending migrations
type MigrateUpCmd struct{}

// Run executes the migrate up command
func (c *MigrateUpCmd) Run(cli *CLI) error {
	cfg, _, err := cli.setup()
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(cli.Out, "Database %s is at schema version %d\n", cfg.Database.Path, storage.LatestVersion())
	return nil
}

// MigrateStatusCmd shows migration status
type MigrateStatusCmd struct{}

// Run executes the migrate status command
func (c *MigrateStatusCmd) Run(cli *CLI) error {
	cfg, _, err := cli.setup()
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	applied, err := db.AppliedMigrations(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	w := tabwriter.NewWriter(cli.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tAPPLIED AT")
	for _, m := range applied {
		fmt.Fprintf(w, "%d\t%s\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cli.Out, "latest: %d\n", storage.LatestVersion())
	return nil
}
