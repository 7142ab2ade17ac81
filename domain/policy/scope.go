package policy

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideScope indicates a path escaping the permitted directory.
var ErrOutsideScope = errors.New("path outside write scope")

// WriteScope restricts filesystem writes to a single directory subtree.
type WriteScope struct {
	root string
}

// NewWriteScope creates a scope rooted at dir.
func NewWriteScope(dir string) WriteScope {
	return WriteScope{root: filepath.Clean(dir)}
}

// Root returns the scope's root directory.
func (s WriteScope) Root() string {
	return s.root
}

// Validate rejects paths that resolve outside the scope root.
func (s WriteScope) Validate(path string) error {
	rel, err := filepath.Rel(s.root, filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOutsideScope, path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideScope, path)
	}
	return nil
}
