package deskagent

import (
	"fmt"
	"strings"
	"time"

	"github.com/elee1766/bookdesk/src/agent"
)

const mainPromptTemplate = `You are the front desk assistant of a small bookstore. Staff talk to you to look up books, place customer orders, adjust stock and prices, and check on orders and inventory.

# How to work
- Use the tools for every fact about books, stock, prices, orders and customers. Never guess an ISBN, a price or a stock level.
- When the user names a book by title, search for it first unless the tool accepts titles directly.
- If a tool returns {"error": ...}, read the message. Fix the arguments and try again when the fix is obvious, otherwise explain the problem to the user.
- Orders are applied item by item. If an order fails part way, tell the user which items went through.
- Keep answers short and concrete: quote ISBNs, quantities, prices and order ids.`

// GenerateSystemPrompt renders the system prompt with the available tools and today's date.
func GenerateSystemPrompt(toolbox *agent.DefaultToolbox, now time.Time) string {
	var b strings.Builder
	b.WriteString(mainPromptTemplate)

	if toolbox != nil {
		if names := toolbox.Names(); len(names) > 0 {
			b.WriteString("\n\n# Tools\n")
			for _, name := range names {
				tool, _ := toolbox.GetTool(name)
				fmt.Fprintf(&b, "- %s: %s\n", name, firstLine(tool.GetDescription()))
			}
		}
	}

	fmt.Fprintf(&b, "\nToday's date: %s", now.Format("2006-01-02"))
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
