package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the eventdesk application
var rootCmd = &cobra.Command{
	Use:   "eventdesk",
	Short: "Natural-language scheduling tools over a calendar REST backend",
	Long: `eventdesk turns scheduling requests from an AI agent into calls against a
calendar REST backend (POST/GET/PUT/DELETE /events).

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (default)
  - A command-line client for the same operations (eventdesk events ...)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "eventdesk version %s\n" .Version}}`)

	// If no subcommand is provided, run the MCP server
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
