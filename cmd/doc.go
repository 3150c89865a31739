// Package cmd implements the command-line interface for eventdesk.
//
// This package provides the following commands:
//   - serve: Start the MCP server that exposes the calendar tools (default)
//   - events: Run list, create, update and delete against the backend directly
//   - config: Write a default configuration file or show the effective one
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
