package cmd

import (
	"fmt"
	"time"

	"github.com/teemow/eventdesk/internal/datetime"
	"github.com/teemow/eventdesk/internal/tools/calendar_tools"
)

// serverInstructions is sent to MCP clients on initialize. today is computed
// once at startup.
func serverInstructions(today datetime.CurrentDate) string {
	return fmt.Sprintf(`You manage calendar events stored in a scheduling backend.
Today's date is %[1]s.

## Core capabilities
- Use %[2]s to show events from a start date for a number of days.
- Use %[3]s to add an event. It needs a summary, a start time and an end time.
- Use %[4]s to change an existing event. It needs the event ID.
- Use %[5]s to remove an event. It needs the event ID and confirmation.
- Use %[6]s to re-read today's date.

## Guidelines
- Event IDs come from %[2]s. Updates and deletions need one.
- Convert relative dates ("tomorrow 3pm", "next Friday at 10 AM") into "YYYY-MM-DD HH:MM" before calling a tool.
- Always confirm deletions. When %[5]s answers with confirmation_required, ask the user and call again with confirm=true only if they agree.
- If an operation fails, relay the message from the tool result.
- Be concise. Never show raw JSON or tool output to the user; summarize it.

## Example: listing events
User: "What's on my schedule for today?"
Call: %[2]s(start="%[7]s", days=1)

## Example: creating an event
User: "Create a meeting with John tomorrow at 2 PM titled 'Project Discussion'"
Call: %[3]s(summary="Project Discussion", start="%[8]s 14:00", end="%[8]s 15:00")
Infer a one hour duration or ask when the end time is unclear.
`,
		today.Formatted,
		calendar_tools.ToolListEvents,
		calendar_tools.ToolCreateEvent,
		calendar_tools.ToolUpdateEvent,
		calendar_tools.ToolDeleteEvent,
		calendar_tools.ToolCurrentDate,
		today.Date,
		tomorrow(today.Date),
	)
}

// tomorrow returns the day after a YYYY-MM-DD date, or date unchanged if it
// does not parse.
func tomorrow(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, 1).Format(time.DateOnly)
}
