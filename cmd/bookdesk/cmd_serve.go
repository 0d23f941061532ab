package main

import (
	"context"
	"os/signal"
	"syscall"
)

// ServeCmd runs the HTTP API until interrupted
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to config)"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	a, cfg, logger, err := cli.newApp()
	if err != nil {
		return err
	}
	// Services are built on first use, so the override still applies.
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	defer func() {
		if err := a.Shutdown(); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting bookdesk", "model", cfg.LLM.Model, "database", cfg.Database.Path)
	return a.Serve(ctx)
}
