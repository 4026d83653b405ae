package cmd

import (
	"github.com/huangsam/mindscore/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MindScore MCP server",
	Long:  `Launch an MCP server that allows AI agents to score assessments and summarize trends via standard tools.`,
	// Setup logs nothing to stdout, which carries the protocol.
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, engine, storeManager)
	},
}
