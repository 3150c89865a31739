package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventdesk/internal/server"
)

// TodayURI is the URI of the current-date resource.
const TodayURI = "calendar://context/today"

// RegisterCalendarResources registers the calendar context resources.
func RegisterCalendarResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc == nil {
		return fmt.Errorf("server context is required")
	}

	todayResource := mcp.NewResource(
		TodayURI,
		"Today",
		mcp.WithResourceDescription("Today's date as used by the calendar tools to resolve relative dates"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(todayResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleToday(request, sc)
	})

	return nil
}

func handleToday(request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(sc.Today(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal current date: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
