package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpgo "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/signal/domain/tool"
)

// ToolServer exposes signal's registered tools over MCP, so other agents can
// call them the same way signal consumes remote ones.
type ToolServer struct {
	srv      *mcpgo.Server
	registry tool.Registry
}

// ToolServerConfig configures a ToolServer.
type ToolServerConfig struct {
	// Name is the server name.
	Name string

	// Version is the server version.
	Version string

	// Registry holds the tools to expose.
	Registry tool.Registry

	// Instructions provides usage instructions for clients.
	Instructions string
}

// NewToolServer creates an MCP server exposing the registry's tools.
func NewToolServer(cfg ToolServerConfig) *ToolServer {
	info := mcpgo.ServerInfo{
		Name:    cfg.Name,
		Version: cfg.Version,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	s := &ToolServer{
		srv:      mcpgo.NewServer(info, opts...),
		registry: cfg.Registry,
	}

	if cfg.Registry != nil {
		for _, t := range cfg.Registry.List() {
			s.registerTool(t)
		}
	}

	return s
}

func (s *ToolServer) registerTool(t tool.Tool) {
	handler := func(ctx context.Context, input json.RawMessage) (string, error) {
		result, err := t.Execute(ctx, input)
		if err != nil {
			return "", err
		}
		if result.IsError() {
			return "", result.Error
		}
		return string(result.Output), nil
	}

	s.srv.Tool(t.Name()).
		Description(t.Description()).
		Handler(handler)
}

// AddTool registers a tool with both the registry and the server.
func (s *ToolServer) AddTool(t tool.Tool) error {
	if s.registry != nil {
		if err := s.registry.Register(t); err != nil {
			return fmt.Errorf("register tool: %w", err)
		}
	}
	s.registerTool(t)
	return nil
}

// Server returns the underlying mcp-go server.
func (s *ToolServer) Server() *mcpgo.Server {
	return s.srv
}

// ServeStdio runs the server over stdin/stdout until ctx is done.
func (s *ToolServer) ServeStdio(ctx context.Context, opts ...mcpgo.ServeOption) error {
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}
