package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/signal/domain/tool"
	"github.com/felixgeelhaar/signal/infrastructure/mcp"
	"github.com/felixgeelhaar/signal/infrastructure/registry"
)

func submitTool(t *testing.T) tool.Tool {
	t.Helper()

	built, err := tool.NewBuilder("mcp__signal__submit_report").
		WithDescription("Submit the final report").
		WithHandler(func(_ context.Context, _ json.RawMessage) (tool.Result, error) {
			return tool.NewTextResult("saved"), nil
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return built
}

func TestNewToolServer(t *testing.T) {
	t.Parallel()

	reg := registry.NewInMemory()
	if err := reg.Register(submitTool(t)); err != nil {
		t.Fatal(err)
	}

	srv := mcp.NewToolServer(mcp.ToolServerConfig{
		Name:     "signal",
		Version:  "1.0.0",
		Registry: reg,
	})
	if srv == nil || srv.Server() == nil {
		t.Fatal("NewToolServer() returned nil server")
	}
}

func TestToolServer_AddTool(t *testing.T) {
	t.Parallel()

	reg := registry.NewInMemory()
	srv := mcp.NewToolServer(mcp.ToolServerConfig{
		Name:     "signal",
		Version:  "1.0.0",
		Registry: reg,
	})

	if err := srv.AddTool(submitTool(t)); err != nil {
		t.Fatalf("AddTool() error = %v", err)
	}
	if !reg.Has("mcp__signal__submit_report") {
		t.Error("AddTool() did not register with the registry")
	}

	// Duplicate names propagate the registry error.
	if err := srv.AddTool(submitTool(t)); err == nil {
		t.Error("duplicate AddTool() should fail")
	}
}
