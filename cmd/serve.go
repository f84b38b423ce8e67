package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/macpilot/internal/config"
	"github.com/mj1618/macpilot/internal/platform"
	"github.com/mj1618/macpilot/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing macpilot tools",
	Long: `Start a Model Context Protocol (MCP) server named macPilot. Clients call
the tools directly: window trees, window list, input, apps, shell commands
and screen capture.

Supported transports:
  stdio             Standard I/O (default)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  macpilot serve
  macpilot serve --transport streamable-http --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: stdio, streamable-http (default from config)")
	serveCmd.Flags().Int("port", 0, "HTTP port for streamable-http transport (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	c := cfg
	if transport, _ := cmd.Flags().GetString("transport"); transport != "" {
		c.Server.Transport = config.Transport(transport)
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		c.Server.Port = port
	}
	if err := c.Validate(); err != nil {
		return err
	}

	provider, err := platform.NewProvider()
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	srv := server.New(provider, server.Options{Config: c, Logger: logger})
	return srv.Serve()
}
