package tool_inventorysummary

import (
	"context"
	"testing"

	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/desk/desktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventorySummaryTool(t *testing.T) {
	fx := desktest.Open(t)
	tool, err := Tool(desk.NewService(fx.DB.DB()))
	require.NoError(t, err)

	result, err := tool.Execute(context.Background(), &aisdk.ToolCall{
		Function: aisdk.FunctionCall{Name: Name},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, string(result.Content))

	assert.JSONEq(t, `{
		"total_titles": 4,
		"total_stock": 17,
		"low_stock": [
			{"isbn": "`+desktest.ISBNUnknown+`", "title": "Unknown Isbn", "stock": 0},
			{"isbn": "`+desktest.ISBNHobbit+`", "title": "The Hobbit", "stock": 2}
		]
	}`, string(result.Content))
}
