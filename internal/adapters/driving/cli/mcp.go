package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadscout/internal/adapters/driving/mcp"
	"github.com/custodia-labs/threadscout/internal/logger"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can run discoveries.

Tools:
  discover_communities - run a discovery and return accepted and related communities
  expand_keywords      - show the keyword set a discovery would search
  profile_community    - summarise the style of a community's top posts

Resources:
  threadscout://runs         - recent runs
  threadscout://runs/{runId} - a stored run with every scored candidate

By default, the server communicates over stdio using JSON-RPC. Use --port to
serve streamable HTTP instead. The config file is watched while serving, so
edited discovery defaults apply to the next tool call.

Examples:
  # Stdio mode (default, for desktop assistants)
  threadscout mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  threadscout mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if discoveryService == nil {
		return errors.New("discovery service not configured (set reddit.client_id and reddit.client_secret)")
	}

	ports := &mcp.Ports{
		Discovery: discoveryService,
		Settings:  settingsService,
		Runs:      runHistoryService,
		Profile:   profileService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if configWatcher != nil {
		if err := configWatcher.Watch(cmd.Context(), func() {
			logger.Info("Settings reloaded")
		}); err != nil {
			logger.Warn("Config file will not be reloaded: %v", err)
		}
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
