package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/elee1766/bookdesk/src/aisdk"
)

// CLI represents the main CLI structure
type CLI struct {
	Config    string `short:"c" help:"Configuration file" env:"BOOKDESK_CONFIG"`
	LogLevel  string `help:"Log level (debug, info, warn, error)"`
	LogFormat string `help:"Log format (text, json)"`
	DB        string `type:"path" help:"Database path (defaults to config)"`

	Serve     ServeCmd     `cmd:"" help:"Run the HTTP API"`
	Migrate   MigrateCmd   `cmd:"" help:"Database migrations"`
	Seed      SeedCmd      `cmd:"" help:"Load the book and customer catalog"`
	Ask       AskCmd       `cmd:"" help:"Send one message to the desk agent"`
	Inventory InventoryCmd `cmd:"" help:"Print the inventory summary"`
	Tools     ToolsCmd     `cmd:"" help:"Inspect and run desk tools"`
	Settings  SettingsCmd  `cmd:"" name:"config" help:"Show the effective configuration"`

	Out   io.Writer         `kong:"-"`
	Model aisdk.ModelClient `kong:"-"`
}

func main() {
	cli := CLI{Out: os.Stdout}
	ctx := kong.Parse(&cli,
		kong.Name("bookdesk"),
		kong.Description("Bookstore desk agent backed by a chat completion model"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
