package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bucoapprove/mondash/internal/dataset"
	"github.com/bucoapprove/mondash/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for Claude Code integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets MCP clients query stored snapshots directly. Configure in
Claude Code with:

  {
    "mcpServers": {
      "mondash": { "command": "mondash", "args": ["mcp"] }
    }
  }

Available tools: monday_list_records, monday_stats,
monday_list_snapshots, monday_refresh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}

		// Refresh only works when an API token is configured; the
		// store-backed tools work either way.
		var builder *dataset.Builder
		if source, err := newSource(); err == nil {
			builder = dataset.NewBuilder(source, nil)
		}

		return mcp.NewServer(s, builder).ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
