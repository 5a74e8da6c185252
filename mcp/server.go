// Package mcp exposes the watch research operations as MCP tools over
// stdio or HTTP.
package mcp

import (
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hikaru-dev/watchscout/internal/extractor"
	"github.com/hikaru-dev/watchscout/internal/tavily"
)

// Deps carries the collaborators the tool handlers need. Clients are
// injected so the server shares the CLI's configuration.
type Deps struct {
	Searcher    *tavily.Client
	Extractor   *extractor.Extractor
	MaxListings int
	Advanced    bool
	Delay       time.Duration
}

// Serve starts the MCP stdio server with all tools registered.
func Serve(deps Deps) error {
	s := newServer(deps)
	return server.ServeStdio(s)
}

func newServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"watchscout",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	registerTools(s, deps)
	return s
}
