package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventdesk/internal/calendar"
	"github.com/teemow/eventdesk/internal/instrumentation"
	"github.com/teemow/eventdesk/internal/server"
	"github.com/teemow/eventdesk/internal/tools/common"
)

const dateHint = "Prefer 'YYYY-MM-DD HH:MM' (e.g. '2025-06-03 14:00'). Also accepted: " +
	"'YYYY-MM-DD hh:mm AM/PM', 'YYYY-MM-DDTHH:MM:SS', 'YYYY-MM-DD' and ISO 8601 with offset."

// RegisterEventTools registers the create, list, update and delete tools.
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createEventTool := mcp.NewTool(ToolCreateEvent,
		mcp.WithDescription("Create a new calendar event in the backend"),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start date and time. "+dateHint),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End date and time. "+dateHint),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone (e.g. 'Asia/Colombo'). Defaults to "+sc.Calendar().DefaultTimeZone()+"."),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(createEventTool, common.InstrumentedToolHandlerWithOperation(
		ToolCreateEvent, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	listEventsTool := mcp.NewTool(ToolListEvents,
		mcp.WithDescription("List calendar events starting on a date for a number of days. "+
			"Returns event IDs needed for updates and deletions."),
		mcp.WithString("start",
			mcp.Description("First day of the range. Defaults to the start of today. "+dateHint),
		),
		mcp.WithNumber("days",
			mcp.Description("Number of days to include (default: 7)"),
			mcp.DefaultNumber(calendar.DefaultListDays),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(listEventsTool, common.InstrumentedToolHandlerWithOperation(
		ToolListEvents, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	updateEventTool := mcp.NewTool(ToolUpdateEvent,
		mcp.WithDescription("Update an existing calendar event. Only the supplied fields are changed."),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to update (from calendar_list_events)"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title"),
		),
		mcp.WithString("start",
			mcp.Description("New start date and time. "+dateHint),
		),
		mcp.WithString("end",
			mcp.Description("New end date and time. "+dateHint),
		),
		mcp.WithString("timeZone",
			mcp.Description("New IANA time zone"),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(updateEventTool, common.InstrumentedToolHandlerWithOperation(
		ToolUpdateEvent, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEvent(ctx, request, sc)
		}))

	deleteEventTool := mcp.NewTool(ToolDeleteEvent,
		mcp.WithDescription("Delete a calendar event. Nothing is deleted unless confirm is true; "+
			"ask the user before confirming."),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to delete (from calendar_list_events)"),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Must be true to actually delete the event (default: false)"),
			mcp.DefaultBool(false),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)
	s.AddTool(deleteEventTool, common.InstrumentedToolHandlerWithOperation(
		ToolDeleteEvent, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	in := calendar.CreateInput{}
	in.Summary, _ = common.StringArg(args, "summary")
	in.Start, _ = common.StringArg(args, "start")
	in.End, _ = common.StringArg(args, "end")
	in.TimeZone, _ = common.StringArg(args, "timeZone")

	env := sc.Calendar().Create(ctx, in)

	var id string
	if env.Details != nil {
		id = env.Details.ID
	}
	common.AnnotateInvocation(ctx, id, in.Summary, string(env.Status))
	return envelopeResult(env)
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	days, err := common.IntArg(args, "days", calendar.DefaultListDays)
	if err != nil {
		env := argumentError(err)
		env.Events = []calendar.EventView{}
		return envelopeResult(env)
	}

	env := sc.Calendar().List(ctx, calendar.ListInput{
		Start: common.OptionalString(args, "start"),
		Days:  days,
	})
	common.AnnotateInvocation(ctx, "", "", string(env.Status))
	return envelopeResult(env)
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	in := calendar.UpdateInput{
		Summary:  common.OptionalString(args, "summary"),
		Start:    common.OptionalString(args, "start"),
		End:      common.OptionalString(args, "end"),
		TimeZone: common.OptionalString(args, "timeZone"),
	}
	in.EventID, _ = common.StringArg(args, "eventId")

	env := sc.Calendar().Update(ctx, in)

	var summary string
	if in.Summary != nil {
		summary = *in.Summary
	}
	common.AnnotateInvocation(ctx, in.EventID, summary, string(env.Status))
	return envelopeResult(env)
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	confirm, err := common.BoolArg(args, "confirm", false)
	if err != nil {
		return envelopeResult(argumentError(err))
	}

	in := calendar.DeleteInput{Confirm: confirm}
	in.EventID, _ = common.StringArg(args, "eventId")

	env := sc.Calendar().Delete(ctx, in)
	common.AnnotateInvocation(ctx, in.EventID, "", string(env.Status))
	return envelopeResult(env)
}
