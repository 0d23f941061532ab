package tools

// Barrel re-exports for the desk tools so callers can build the whole set from one place.

import (
	"github.com/elee1766/bookdesk/src/agent"
	"github.com/elee1766/bookdesk/src/desk"
	tool_createorder "github.com/elee1766/bookdesk/src/deskagent/tools/tool_createorder"
	tool_findbooks "github.com/elee1766/bookdesk/src/deskagent/tools/tool_findbooks"
	tool_inventorysummary "github.com/elee1766/bookdesk/src/deskagent/tools/tool_inventorysummary"
	tool_orderstatus "github.com/elee1766/bookdesk/src/deskagent/tools/tool_orderstatus"
	tool_restockbook "github.com/elee1766/bookdesk/src/deskagent/tools/tool_restockbook"
	tool_updateprice "github.com/elee1766/bookdesk/src/deskagent/tools/tool_updateprice"
)

// Tool name constants - re-exported from individual packages
const (
	FindBooksName        = tool_findbooks.Name
	CreateOrderName      = tool_createorder.Name
	RestockBookName      = tool_restockbook.Name
	UpdatePriceName      = tool_updateprice.Name
	OrderStatusName      = tool_orderstatus.Name
	InventorySummaryName = tool_inventorysummary.Name
)

func FindBooksTool(svc *desk.Service) (agent.Tool, error)   { return tool_findbooks.Tool(svc) }
func CreateOrderTool(svc *desk.Service) (agent.Tool, error) { return tool_createorder.Tool(svc) }
func RestockBookTool(svc *desk.Service) (agent.Tool, error) { return tool_restockbook.Tool(svc) }
func UpdatePriceTool(svc *desk.Service) (agent.Tool, error) { return tool_updateprice.Tool(svc) }
func OrderStatusTool(svc *desk.Service) (agent.Tool, error) { return tool_orderstatus.Tool(svc) }
func InventorySummaryTool(svc *desk.Service) (agent.Tool, error) {
	return tool_inventorysummary.Tool(svc)
}

// All builds the fixed desk tool set.
func All(svc *desk.Service) ([]agent.Tool, error) {
	constructors := []func(*desk.Service) (agent.Tool, error){
		FindBooksTool,
		CreateOrderTool,
		RestockBookTool,
		UpdatePriceTool,
		OrderStatusTool,
		InventorySummaryTool,
	}
	out := make([]agent.Tool, 0, len(constructors))
	for _, newTool := range constructors {
		tool, err := newTool(svc)
		if err != nil {
			return nil, err
		}
		out = append(out, tool)
	}
	return out, nil
}
