// Package server exposes the grow pipeline as an MCP server over stdio.
package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chazu/rct/pkg/growth"
	"github.com/chazu/rct/pkg/store"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// Server serves the pipeline tools. Every tool call works on a fresh model.
type Server struct {
	mcpServer *mcp.Server
	store     *store.Store
	seed      *int64
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables save_network and list_networks.
func WithStore(st *store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithSeed is the default random seed for calls that do not pass one.
func WithSeed(seed int64) Option {
	return func(s *Server) {
		s.seed = &seed
	}
}

// New builds a server with every tool and resource registered.
func New(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{Name: "rct", Version: Version}, nil)
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// growOptions picks the call's seed, falling back to the server default.
func (s *Server) growOptions(seed *int64) []growth.Option {
	switch {
	case seed != nil:
		return []growth.Option{growth.WithSeed(*seed)}
	case s.seed != nil:
		return []growth.Option{growth.WithSeed(*s.seed)}
	}
	return nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
