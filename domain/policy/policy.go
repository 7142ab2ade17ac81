// Package policy provides the permission layer: which tools the agent may
// invoke and where reports may be written. Violations are surfaced to the
// agent as tool-level denials, never process faults.
package policy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolDenied indicates a tool invocation outside the allow-list.
var ErrToolDenied = errors.New("tool not permitted")

// ToolFilter matches tool names against an allow-list. A pattern ending in
// '*' permits every tool sharing the prefix, e.g. "mcp__datadog__*".
type ToolFilter struct {
	patterns []string
}

// NewToolFilter creates a filter from the given patterns. An empty pattern
// list denies everything.
func NewToolFilter(patterns ...string) ToolFilter {
	return ToolFilter{patterns: patterns}
}

// Allows reports whether the named tool is permitted.
func (f ToolFilter) Allows(name string) bool {
	if name == "" {
		return false
	}
	for _, p := range f.patterns {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(name, prefix) {
				return true
			}
			continue
		}
		if p == name {
			return true
		}
	}
	return false
}

// Check returns ErrToolDenied when the named tool is outside the allow-list.
func (f ToolFilter) Check(name string) error {
	if !f.Allows(name) {
		return fmt.Errorf("%w: %s", ErrToolDenied, name)
	}
	return nil
}

// Patterns returns the configured allow-list.
func (f ToolFilter) Patterns() []string {
	out := make([]string, len(f.patterns))
	copy(out, f.patterns)
	return out
}
