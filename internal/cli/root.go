package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mymcp-console",
	Short: "Web console for the MyMCP browser automation backend",
	Long: `mymcp-console is the admin and chat console for a MyMCP backend.

Record browser sessions through the Chrome extension, turn recordings into
reusable automation tools, and manage MCP server installs, all from a local
web UI backed by the MyMCP HTTP API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
