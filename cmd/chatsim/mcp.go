package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/internal/cli"
	"github.com/aretw0/chatsim/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [flow]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the flow to AI agents as MCP tools (start_session, press_button,
get_transcript, get_graph).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		logger := cli.NewLogger(cfg.LogLevel, false)
		stack, err := cli.BuildEngine(cli.EngineOptions{
			FlowPath: flowPath(cmd, args),
			Config:   cfg,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		defer stack.Close()

		srv := mcp.NewServer(stack.Engine, chatsim.Version, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("Starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			addr := fmt.Sprintf(":%d", port)
			if err := srv.ServeSSE(ctx, addr, fmt.Sprintf("http://localhost:%d", port)); err != nil {
				return err
			}
			logger.Info("MCP server stopped")
			return nil
		default:
			return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
