// ABOUTME: MCP server setup for the wellness engine.
// ABOUTME: Wraps the MCP server with storage and analyzer access.
package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/wellness/internal/engine"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	analyzer  *engine.Analyzer
	logger    *log.Logger
}

// NewServer creates a new MCP server with the given storage. A nil
// analyzer gets a formula-only analyzer over repo.
func NewServer(repo storage.Repository, analyzer *engine.Analyzer, logger *log.Logger) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "wellness",
			Version: Version,
		},
		nil,
	)

	if analyzer == nil {
		analyzer = engine.NewAnalyzer(repo, repo, engine.WithLogger(logger))
	}

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		analyzer:  analyzer,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("mcp server listening on stdio")
	}
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
