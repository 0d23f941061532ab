package main

import (
	"context"
	"encoding/json"
)

// InventoryCmd prints the inventory summary as JSON
type InventoryCmd struct{}

func (c *InventoryCmd) Run(cli *CLI) error {
	a, _, _, err := cli.newApp()
	if err != nil {
		return err
	}
	defer a.Shutdown()

	svc, err := a.Desk()
	if err != nil {
		return err
	}
	report, err := svc.InventorySummary(context.Background())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cli.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
