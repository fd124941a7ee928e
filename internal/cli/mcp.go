package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"focustimer/cmd/focustimer/mcp"
	"focustimer/internal/app"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio that lets an assistant
read and drive the timer, label the current task and query statistics.

Configure in the client's config file:
  {
    "mcpServers": {
      "focustimer": {
        "command": "focustimer",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := mcp.StartServer(a); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
