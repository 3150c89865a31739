package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventdesk/internal/server"
	"github.com/teemow/eventdesk/internal/tools/common"
)

// RegisterDateTools registers calendar_current_date.
func RegisterDateTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	currentDateTool := mcp.NewTool(ToolCurrentDate,
		mcp.WithDescription("Get today's date as seen by the calendar. Use it to resolve relative "+
			"dates such as 'tomorrow' or 'next Friday' before calling the event tools."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(currentDateTool, common.InstrumentedToolHandler(ToolCurrentDate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return common.JSONResult(sc.Today(), false)
		}))
}
