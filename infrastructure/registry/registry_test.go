package registry_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/signal/domain/tool"
	"github.com/felixgeelhaar/signal/infrastructure/registry"
)

func newTool(t *testing.T, name string) tool.Tool {
	t.Helper()

	built, err := tool.NewBuilder(name).
		WithHandler(func(_ context.Context, _ json.RawMessage) (tool.Result, error) {
			return tool.NewTextResult("ok"), nil
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return built
}

func TestInMemory_RegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := registry.NewInMemory()
	if err := reg.Register(newTool(t, "mcp__signal__submit_report")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := reg.Get("mcp__signal__submit_report")
	if !ok {
		t.Fatal("Get() did not find registered tool")
	}
	if got.Name() != "mcp__signal__submit_report" {
		t.Errorf("Name() = %s", got.Name())
	}

	if _, ok := reg.Get("missing"); ok {
		t.Error("Get() found unregistered tool")
	}
	if !reg.Has("mcp__signal__submit_report") || reg.Has("missing") {
		t.Error("Has() disagrees with Get()")
	}
}

func TestInMemory_DuplicateRejected(t *testing.T) {
	t.Parallel()

	reg := registry.NewInMemory()
	if err := reg.Register(newTool(t, "a")); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(newTool(t, "a")); !errors.Is(err, registry.ErrDuplicateTool) {
		t.Fatalf("duplicate Register() error = %v, want ErrDuplicateTool", err)
	}
}

func TestInMemory_NilRejected(t *testing.T) {
	t.Parallel()

	reg := registry.NewInMemory()
	if err := reg.Register(nil); !errors.Is(err, registry.ErrNilTool) {
		t.Fatalf("Register(nil) error = %v, want ErrNilTool", err)
	}
}

func TestInMemory_ListOrdered(t *testing.T) {
	t.Parallel()

	reg := registry.NewInMemory()
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		if err := reg.Register(newTool(t, name)); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"alpha", "bravo", "charlie"}
	names := reg.Names()
	if len(names) != len(want) {
		t.Fatalf("Names() = %v", names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Names()[%d] = %s, want %s", i, names[i], name)
		}
	}

	tools := reg.List()
	for i, name := range want {
		if tools[i].Name() != name {
			t.Errorf("List()[%d] = %s, want %s", i, tools[i].Name(), name)
		}
	}
}
