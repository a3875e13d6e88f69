// Package mcp exposes the Refactor API and Agent Orchestrator over the
// Model Context Protocol, so an AI coding assistant can plan and apply
// renames/import rewrites and drive agents the same way the CLI does.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sourcelens/engine/internal/config"
	"github.com/sourcelens/engine/internal/engine"
)

// Server wraps the MCP SDK server with a fully-indexed Engine.
type Server struct {
	cfg              *config.Config
	server           *mcp.Server
	diagnosticLogger *DiagnosticLogger
	engine           *engine.Engine
}

// NewServer builds an Engine for cfg.Project.Root, indexes it, and
// registers the Refactor API / Agent Orchestrator tools. CRITICAL: all
// diagnostic output goes through diagnosticLogger (file-based), never to
// stdout/stderr, which the stdio transport needs kept clean for protocol
// framing.
func NewServer(cfg *config.Config) (*Server, error) {
	diagnosticLogger := NewDiagnosticLogger(true)

	e := engine.New(cfg)
	if _, err := e.IndexDirectory(context.Background(), cfg.Project.Root); err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", cfg.Project.Root, err)
	}
	diagnosticLogger.Printf("indexed project root %s", cfg.Project.Root)

	s := &Server{
		cfg:              cfg,
		diagnosticLogger: diagnosticLogger,
		engine:           e,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "sourcelens-engine-mcp",
		Version: "0.1.0",
	}, nil)
	s.registerTools()

	return s, nil
}

// registerTools registers every MCP tool the server exposes. There is
// only one tool family today (the Refactor API and Agent Orchestrator);
// a future tool family gets its own register*Tools method called from
// here, following this same shape.
func (s *Server) registerTools() {
	s.registerIntelTools()
}

// Start runs the server over the stdio transport until ctx is canceled or
// the transport closes.
func (s *Server) Start(ctx context.Context) error {
	s.diagnosticLogger.Printf("starting MCP server with stdio transport")

	if pprofPort := os.Getenv("LCI_PPROF_PORT"); pprofPort != "" {
		go func() {
			s.diagnosticLogger.Printf("starting pprof server on http://localhost:%s/debug/pprof/", pprofPort)
			if err := http.ListenAndServe(":"+pprofPort, nil); err != nil {
				s.diagnosticLogger.Printf("pprof server error: %v", err)
			}
		}()
	}

	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Shutdown closes the diagnostic log file.
func (s *Server) Shutdown(ctx context.Context) error {
	s.diagnosticLogger.Printf("shutting down MCP server")
	return s.diagnosticLogger.Close()
}
