// Package server provides the MCP server wrapper with lifecycle management.
package server

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bobagent/ability-mcp-go/internal/metrics"
)

// Server wraps an MCP server with logging and metrics middleware.
// One instance backs each of the three servers (ability, memory,
// observability); they differ only in name and registered tools.
type Server struct {
	mcp       *mcp.Server
	logger    *slog.Logger
	collector *metrics.Collector
}

// New creates an MCP server with the given name and version.
func New(name, version string, logger *slog.Logger) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version,
	}

	return &Server{
		mcp:       mcp.NewServer(impl, nil),
		logger:    logger,
		collector: metrics.NewCollector(),
	}
}

// Setup installs logging and metrics middleware. Call before Run.
func (s *Server) Setup() {
	s.mcp.AddReceivingMiddleware(LoggingMiddleware(s.logger))
	s.mcp.AddReceivingMiddleware(MetricsMiddleware(s.collector))
}

// Run starts the server on stdio transport and blocks until
// disconnect or context cancellation.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server", "transport", "stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server for tool registration.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Collector returns the runtime metrics collector, so a stats tool can
// expose per-operation timings.
func (s *Server) Collector() *metrics.Collector {
	return s.collector
}
