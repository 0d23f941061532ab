package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/elee1766/bookdesk/src/aisdk/aisdktest"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliHarness struct {
	t     *testing.T
	db    string
	model aisdk.ModelClient
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	t.Setenv("BOOKDESK_CONFIG", "")
	t.Setenv("BOOKDESK_DB", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("BOOKDESK_API_KEY", "")
	return &cliHarness{t: t, db: filepath.Join(t.TempDir(), "bookdesk.db")}
}

// run parses and executes one command line, returning what it wrote.
func (h *cliHarness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cli := CLI{Out: &out, Model: h.model}
	parser, err := kong.New(&cli, kong.Name("bookdesk"), kong.Exit(func(int) {}))
	require.NoError(h.t, err)

	args = append([]string{"--db", h.db, "--log-level", "error"}, args...)
	ctx, err := parser.Parse(args)
	require.NoError(h.t, err)
	err = ctx.Run(&cli)
	return out.String(), err
}

func TestSeedAndInventory(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 10 books and 3 customers")

	out, err = h.run("inventory")
	require.NoError(t, err)
	var report desk.InventoryReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 10, report.TotalTitles)
	assert.Equal(t, 49, report.TotalStock)
	assert.Len(t, report.LowStock, 4)
}

func TestToolsCommands(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("seed")
	require.NoError(t, err)

	out, err := h.run("tools", "list")
	require.NoError(t, err)
	for _, name := range []string{"find_books", "create_order", "restock_book", "update_price", "order_status", "inventory_summary"} {
		assert.Contains(t, out, name)
	}

	out, err = h.run("tools", "show", "find_books")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "find_books"`)
	assert.Contains(t, out, `"q"`)

	out, err = h.run("tools", "run", "find_books", `{"q":"hobbit"}`)
	require.NoError(t, err)
	var books []storage.Book
	require.NoError(t, json.Unmarshal([]byte(out), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "The Hobbit", books[0].Title)

	out, err = h.run("tools", "run", "order_status", `{"order_id": 999}`)
	require.Error(t, err)
	assert.Contains(t, out, "Order 999 not found")

	_, err = h.run("tools", "run", "no_such_tool")
	assert.Error(t, err)

	_, err = h.run("tools", "run", "find_books", "{not json")
	assert.Error(t, err)
}

func TestAskCommand(t *testing.T) {
	h := newHarness(t)
	h.model = aisdktest.NewModel(
		aisdktest.Answer("Hello, how can I help?"),
		aisdktest.Answer("Still here."),
	)

	out, err := h.run("ask", "--json", "hello", "there")
	require.NoError(t, err)
	var first struct {
		SessionID int64  `json:"session_id"`
		Answer    string `json:"answer"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, "Hello, how can I help?", first.Answer)
	assert.Positive(t, first.SessionID)

	out, err = h.run("ask", "--session", "1", "anyone?")
	require.NoError(t, err)
	assert.Contains(t, out, "Still here.")
	assert.Contains(t, out, "(session 1)")

	_, err = h.run("ask", "--session", "42", "hi")
	assert.ErrorIs(t, err, desk.ErrNotFound)
}

func TestConfigCommandMasksKey(t *testing.T) {
	h := newHarness(t)
	t.Setenv("OPENAI_API_KEY", "sk-test-1234567890abcd")

	out, err := h.run("config")
	require.NoError(t, err)
	assert.NotContains(t, out, "sk-test-1234567890abcd")
	assert.Contains(t, out, "sk-t")
	assert.Contains(t, out, "abcd")
	assert.Contains(t, out, h.db)
}

func TestConfigFlag(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(t.TempDir(), "bookdesk.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm":{"model":"anthropic/claude-3-haiku"}}`), 0o644))
	out, err := h.run("--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "anthropic/claude-3-haiku")

	t.Setenv("BOOKDESK_CONFIG", path)
	out, err = h.run("config")
	require.NoError(t, err)
	assert.Contains(t, out, "anthropic/claude-3-haiku")

	_, err = h.run("--config", t.TempDir(), "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestMigrateCommand(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("migrate", "up")
	require.NoError(t, err)

	out, err := h.run("migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "latest:")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "", maskAPIKey(""))
	assert.Equal(t, "*****", maskAPIKey("short"))
	assert.Equal(t, "abcd****wxyz", maskAPIKey("abcdefghwxyz"))
}
