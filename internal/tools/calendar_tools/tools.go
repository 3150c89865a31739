package calendar_tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventdesk/internal/calendar"
	"github.com/teemow/eventdesk/internal/server"
	"github.com/teemow/eventdesk/internal/tools/common"
)

// Tool names.
const (
	ToolCreateEvent = "calendar_create_event"
	ToolListEvents  = "calendar_list_events"
	ToolUpdateEvent = "calendar_update_event"
	ToolDeleteEvent = "calendar_delete_event"
	ToolCurrentDate = "calendar_current_date"
)

// RegisterCalendarTools registers all Calendar-related tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc == nil || sc.Calendar() == nil {
		return fmt.Errorf("calendar tools need a server context with a calendar service")
	}

	RegisterEventTools(s, sc)
	RegisterDateTools(s, sc)
	return nil
}

// envelopeResult renders an envelope as the tool result. Only the error
// status marks the result as an error.
func envelopeResult(env *calendar.Envelope) (*mcp.CallToolResult, error) {
	return common.JSONResult(env, env.IsError())
}

// argumentError reports an argument that could not be decoded.
func argumentError(err error) *calendar.Envelope {
	return &calendar.Envelope{
		Status:  calendar.StatusError,
		Message: fmt.Sprintf("Invalid argument: %v.", err),
	}
}
