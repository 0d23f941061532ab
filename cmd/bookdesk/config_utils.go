package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/elee1766/bookdesk/src/app"
	"github.com/elee1766/bookdesk/src/config"
	"github.com/elee1766/bookdesk/src/deskagent/toolsutil"
)

// loadConfig loads the configuration and applies the global flags over it.
func (cli *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.DB != "" {
		cfg.Database.Path = cli.DB
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Logging.Format = cli.LogFormat
	}
	return cfg, nil
}

// setup loads the configuration and builds the logger.
func (cli *CLI) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := cli.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("configuration: %w", err)
	}
	logger := createLogger(cfg.Logging.Level, cfg.Logging.Format)
	toolsutil.SetLogger(logger.With("component", "tools"))
	return cfg, logger, nil
}

// newApp builds the application container for a command.
func (cli *CLI) newApp() (*app.App, *config.Config, *slog.Logger, error) {
	cfg, logger, err := cli.setup()
	if err != nil {
		return nil, nil, nil, err
	}
	return app.New(app.Options{Config: cfg, Logger: logger, Model: cli.Model}), cfg, logger, nil
}

// maskAPIKey masks an API key for display
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
