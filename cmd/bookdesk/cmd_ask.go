package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/elee1766/bookdesk/src/executor"
)

// AskCmd runs a single chat turn from the terminal
type AskCmd struct {
	Text    []string `arg:"" help:"Message to send"`
	Session int64    `short:"s" help:"Continue an existing session"`
	JSON    bool     `help:"Print the session id and answer as JSON"`
}

func (c *AskCmd) Run(cli *CLI) error {
	a, _, _, err := cli.newApp()
	if err != nil {
		return err
	}
	defer a.Shutdown()

	exec, err := a.Executor()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req := executor.TurnRequest{Message: strings.Join(c.Text, " ")}
	if c.Session > 0 {
		req.SessionID = &c.Session
	}
	result, err := exec.Turn(ctx, req)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(cli.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintln(cli.Out, result.Answer)
	fmt.Fprintf(cli.Out, "\n(session %d)\n", result.SessionID)
	return nil
}
