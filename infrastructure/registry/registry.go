// Package registry provides the in-memory tool registry implementation.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/felixgeelhaar/signal/domain/tool"
)

// Registry errors.
var (
	// ErrNilTool indicates an attempt to register a nil tool.
	ErrNilTool = errors.New("tool is nil")

	// ErrDuplicateTool indicates a name collision on registration.
	ErrDuplicateTool = errors.New("tool already registered")
)

// InMemory is a thread-safe in-memory tool registry.
type InMemory struct {
	mu    sync.RWMutex
	tools map[string]tool.Tool
}

// NewInMemory creates an empty registry.
func NewInMemory() *InMemory {
	return &InMemory{
		tools: make(map[string]tool.Tool),
	}
}

// Register implements tool.Registry.
func (r *InMemory) Register(t tool.Tool) error {
	if t == nil {
		return ErrNilTool
	}
	name := t.Name()
	if name == "" {
		return tool.ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = t
	return nil
}

// Get implements tool.Registry.
func (r *InMemory) Get(name string) (tool.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// List implements tool.Registry. Tools come back in name order so tool
// advertisement is deterministic.
func (r *InMemory) List() []tool.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tool.Tool, 0, len(r.tools))
	for _, name := range r.sortedNames() {
		out = append(out, r.tools[name])
	}
	return out
}

// Names implements tool.Registry.
func (r *InMemory) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames()
}

// Has implements tool.Registry.
func (r *InMemory) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tools[name]
	return ok
}

func (r *InMemory) sortedNames() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ tool.Registry = (*InMemory)(nil)
