// Package server exposes macpilot over the Model Context Protocol.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/macpilot/internal/apps"
	"github.com/mj1618/macpilot/internal/axtree"
	"github.com/mj1618/macpilot/internal/config"
	"github.com/mj1618/macpilot/internal/logging"
	"github.com/mj1618/macpilot/internal/platform"
	"github.com/mj1618/macpilot/internal/shell"
	"github.com/mj1618/macpilot/internal/version"
)

// Name is the server name reported to MCP clients.
const Name = "macPilot"

// Catalog lists installed applications.
type Catalog interface {
	List() []apps.App
	Find(name string) (apps.App, error)
}

// Options carries the collaborators of a Server. Nil fields are built from
// Config.
type Options struct {
	Config   config.Config
	Logger   *log.Logger
	Catalog  Catalog
	Launcher apps.Launcher
	Shell    *shell.Runner
}

// Server wraps the MCP server with the platform provider. Nothing read from
// the desktop is kept between tool calls.
type Server struct {
	provider   *platform.Provider
	cfg        config.Config
	logger     *log.Logger
	catalog    Catalog
	launcher   apps.Launcher
	shell      *shell.Runner
	providerMu sync.Mutex
	mcp        *mcpserver.MCPServer
}

// New creates a server with every macpilot tool registered.
func New(provider *platform.Provider, opts Options) *Server {
	s := &Server{
		provider: provider,
		cfg:      opts.Config,
		logger:   opts.Logger,
		catalog:  opts.Catalog,
		launcher: opts.Launcher,
		shell:    opts.Shell,
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.catalog == nil {
		s.catalog = apps.NewCatalog(s.cfg.AppSearchPaths())
	}
	if s.launcher == nil {
		s.launcher = apps.NewOpener(nil)
	}
	if s.shell == nil {
		s.shell = shell.NewRunner(s.cfg.Shell.Enabled)
	}

	s.mcp = mcpserver.NewMCPServer(Name, version.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Serve runs the configured transport until it fails or the client leaves.
func (s *Server) Serve() error {
	switch s.cfg.Server.Transport {
	case config.TransportStdio, "":
		s.logger.Info("serving", "transport", config.TransportStdio)
		return mcpserver.ServeStdio(s.mcp)
	case config.TransportHTTP:
		addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
		s.logger.Info("serving", "transport", config.TransportHTTP, "addr", addr)
		return mcpserver.NewStreamableHTTPServer(s.mcp).Start(addr)
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Server.Transport)
	}
}

// toolFunc is a tool handler that receives a logger tagged for its call.
type toolFunc func(ctx context.Context, request mcp.CallToolRequest, logger *log.Logger) (*mcp.CallToolResult, error)

// traced tags each call with a request id and logs its outcome.
func (s *Server) traced(name string, fn toolFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := s.logger.With("tool", name, "request_id", uuid.NewString())
		start := time.Now()
		logger.Debug("call", "args", request.GetArguments())

		result, err := fn(ctx, request, logger)
		switch {
		case err != nil:
			logger.Error("call failed", "err", err)
		case result != nil && result.IsError:
			logger.Warn("tool error", "elapsed", time.Since(start))
		default:
			logger.Debug("done", "elapsed", time.Since(start))
		}
		return result, err
	}
}

// accessibility returns a tree service for one call. Walker diagnostics go
// to the call's logger.
func (s *Server) accessibility(logger *log.Logger) *axtree.Service {
	return axtree.NewService(s.provider.Accessibility,
		axtree.WithObserver(logging.NewObserver(logger)),
		axtree.WithCycleGuard(s.cfg.Walker.CycleGuard),
	)
}
