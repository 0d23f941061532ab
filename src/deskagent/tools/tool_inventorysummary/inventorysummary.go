package tool_inventorysummary

import (
	"context"

	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/desk"
)

// Tool name constant
const Name = "inventory_summary"

const inventorySummaryPrompt = `Return an inventory summary: the number of titles, the total number of copies in stock, and the titles that are low on stock.`

// InventorySummaryInput takes no arguments
type InventorySummaryInput struct{}

// Tool returns the inventory_summary tool definition using GenericTool
func Tool(svc *desk.Service) (agent.Tool, error) {
	return agent.NewGenericTool(Name, inventorySummaryPrompt, func(ctx context.Context, _ InventorySummaryInput) (*desk.InventoryReport, error) {
		return svc.InventorySummary(ctx)
	})
}
