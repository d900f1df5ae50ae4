package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neilberkman/cchistory/cmd/cchistory/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for Claude Code integration",
	Long: `Start an MCP (Model Context Protocol) server over stdio that lets Claude
Code search your conversation history (search_history) and summarise a day
of sessions (daily_digest).

Register it with Claude Code:
  claude mcp add cchistory -- cchistory serve-mcp
`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	version := rootCmd.Version
	if version == "" {
		version = "dev"
	}
	if err := mcp.StartServer(newSearcher(), cfg.DefaultLimit, version); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
