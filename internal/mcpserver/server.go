// Package mcpserver exposes a running stepper as MCP tools over streamable
// HTTP, so agents and scripts can drive the same run as the terminal UI.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mark3labs/stepper/internal/logger"
	"github.com/mark3labs/stepper/internal/orchestrator"
	"github.com/mark3labs/stepper/internal/stepper"
)

const (
	serverName    = "stepper"
	serverVersion = "1.0.0"
)

// Controller is the part of the orchestrator the tools drive.
type Controller interface {
	Snapshot() stepper.Snapshot
	Do(ctx context.Context, action string, index int) (orchestrator.Outcome, error)
	Activate(ctx context.Context, index int) (orchestrator.Outcome, error)
	Reset(ctx context.Context) (orchestrator.Outcome, error)
	ToggleOrientation(ctx context.Context) (orchestrator.Outcome, error)
}

// Server manages an embedded MCP HTTP server.
type Server struct {
	ctrl       Controller
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	port       int
	mu         sync.Mutex
}

// New creates a server for ctrl. Tools are registered immediately; the HTTP
// listener is not opened until Start.
func New(ctrl Controller) *Server {
	s := &Server{ctrl: ctrl}
	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server, e.g. for stdio transports.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// Start listens on addr, or a random loopback port when addr is empty, and
// returns the bound port.
func (s *Server) Start(addr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	// Listen first and hand the listener to Serve so the port can't be taken
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	s.httpServer = server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux := http.NewServeMux()
	mux.Handle("/mcp", s.httpServer)
	s.stdServer = &http.Server{Handler: mux}

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Debug("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP server down. It is a no-op when not started.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}
	if err := s.stdServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.httpServer = nil
	s.stdServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL of the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://127.0.0.1:%d/mcp", s.port)
}
