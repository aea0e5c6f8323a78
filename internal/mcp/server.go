package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/mrryf/thesisweb/internal/reading"
	"github.com/mrryf/thesisweb/internal/site"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes lookups over a built thesis.
type Server struct {
	index    *site.Index
	progress *reading.Store
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. progress may be nil, in which case
// the reading progress tool reports that nothing is saved.
func NewServer(index *site.Index, progress *reading.Store) *Server {
	s := &Server{
		index:    index,
		progress: progress,
	}

	s.mcp = server.NewMCPServer(
		"thesisweb",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchContentTool, s.handleSearchContent)
	s.mcp.AddTool(lookupTermTool, s.handleLookupTerm)
	s.mcp.AddTool(listTermsTool, s.handleListTerms)
	s.mcp.AddTool(resolveCitationTool, s.handleResolveCitation)
	s.mcp.AddTool(readingProgressTool, s.handleReadingProgress)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
