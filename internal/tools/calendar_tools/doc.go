// Package calendar_tools exposes the calendar operations as MCP tools.
//
// Every event tool returns the operation's result envelope as JSON text.
// Only an envelope with status "error" marks the tool result as an error;
// "confirmation_required" and "info" are ordinary results the agent is
// expected to act on.
package calendar_tools
