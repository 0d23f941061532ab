package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/elee1766/bookdesk/src/deskagent/tools"
)

// ToolsCmd represents all tool-related commands
type ToolsCmd struct {
	List ToolsListCmd `cmd:"list" help:"List available tools"`
	Show ToolsShowCmd `cmd:"show" help:"Show a tool's description and parameter schema"`
	Run  ToolsRunCmd  `cmd:"run" help:"Execute a tool directly against the database"`
}

// ToolsListCmd lists available tools
type ToolsListCmd struct{}

func (c *ToolsListCmd) Run(cli *CLI) error {
	toolbox, cleanup, err := cli.toolbox()
	if err != nil {
		return err
	}
	defer cleanup()

	w := tabwriter.NewWriter(cli.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, tool := range toolbox.Tools() {
		desc, _, _ := strings.Cut(tool.GetDescription(), "\n")
		fmt.Fprintf(w, "%s\t%s\n", tool.GetName(), desc)
	}
	return w.Flush()
}

// ToolsShowCmd shows tool details
type ToolsShowCmd struct {
	Name string `arg:"" help:"Tool name"`
}

func (c *ToolsShowCmd) Run(cli *CLI) error {
	toolbox, cleanup, err := cli.toolbox()
	if err != nil {
		return err
	}
	defer cleanup()

	tool, ok := toolbox.GetTool(c.Name)
	if !ok {
		return fmt.Errorf("%w: %s", agent.ErrToolNotFound, c.Name)
	}

	enc := json.NewEncoder(cli.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(aisdk.ChatToolFunction{
		Name:        tool.GetName(),
		Description: tool.GetDescription(),
		Parameters:  tool.GetParameters(),
	})
}

// ToolsRunCmd executes a tool the way the agent would
type ToolsRunCmd struct {
	Name  string `arg:"" help:"Tool name"`
	Input string `arg:"" optional:"" help:"Tool arguments as a JSON object"`
}

func (c *ToolsRunCmd) Run(cli *CLI) error {
	toolbox, cleanup, err := cli.toolbox()
	if err != nil {
		return err
	}
	defer cleanup()

	if !toolbox.HasTool(c.Name) {
		return fmt.Errorf("%w: %s", agent.ErrToolNotFound, c.Name)
	}
	input := c.Input
	if strings.TrimSpace(input) == "" {
		input = "{}"
	}
	if !json.Valid([]byte(input)) {
		return fmt.Errorf("invalid JSON input")
	}

	resp, err := toolbox.ExecuteTool(context.Background(), &aisdk.ToolCall{
		ID:       "cli",
		Type:     "function",
		Function: aisdk.FunctionCall{Name: c.Name, Arguments: json.RawMessage(input)},
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.Out, string(resp.Content))
	if resp.IsError {
		return fmt.Errorf("%s reported an error", c.Name)
	}
	return nil
}

// toolbox builds the desk toolbox over the configured database.
func (cli *CLI) toolbox() (*agent.DefaultToolbox, func(), error) {
	a, _, logger, err := cli.newApp()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { a.Shutdown() }

	svc, err := a.Desk()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	all, err := tools.All(svc)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	toolbox := agent.NewToolbox[agent.Tool]()
	for _, tool := range all {
		if err := toolbox.RegisterTool(tool); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	toolbox.RegisterMiddleware(agent.LoggingMiddleware(logger))
	return toolbox, cleanup, nil
}
