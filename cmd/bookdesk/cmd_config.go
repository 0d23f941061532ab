package main

import (
	"encoding/json"
)

// SettingsCmd prints the effective configuration with the API key masked
type SettingsCmd struct{}

func (c *SettingsCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	cfg.LLM.APIKey = maskAPIKey(cfg.LLM.APIKey)

	enc := json.NewEncoder(cli.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
