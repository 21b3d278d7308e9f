package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose the ask, ask_open, and ingest operations as MCP tools so AI
assistants can query and extend the local index.

Without flags the server speaks JSON-RPC over stdio, the transport
Claude Desktop and similar clients expect. With --port it serves
streamable HTTP instead, which MCP Inspector can connect to:

  recall mcp serve
  recall mcp serve --port 8080

A Claude Desktop entry for the stdio mode:
  {
    "mcpServers": {
      "recall": {"command": "/path/to/recall", "args": ["mcp", "serve"]}
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if err := ensureServices(); err != nil {
		return err
	}

	ports := &mcp.Ports{
		Query:  queryService,
		Ingest: ingestSvc,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
