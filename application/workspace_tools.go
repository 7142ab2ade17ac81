package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/felixgeelhaar/signal/domain/policy"
	"github.com/felixgeelhaar/signal/domain/tool"
)

// Workspace tool names.
const (
	ReadFileToolName  = "mcp__signal__read_file"
	WriteFileToolName = "mcp__signal__write_file"
	ListFilesToolName = "mcp__signal__list_files"
)

// ErrEmptyPath indicates a workspace call without a path argument.
var ErrEmptyPath = errors.New("path is required")

// workspace confines agent file access to a single directory subtree. The
// agent uses it to keep notes between runs and to read previous reports back.
type workspace struct {
	root  string
	scope policy.WriteScope
}

// resolve turns a workspace-relative path into an absolute one, rejecting
// anything that escapes the root.
func (w workspace) resolve(rel string) (string, error) {
	if rel == "" {
		return "", ErrEmptyPath
	}
	path := filepath.Join(w.root, rel)
	if err := w.scope.Validate(path); err != nil {
		return "", err
	}
	return path, nil
}

// NewWorkspaceTools returns the read, write, and list tools over the agent's
// working directory rooted at root. Paths in tool arguments are relative to
// root; anything resolving outside it is rejected.
func NewWorkspaceTools(root string) ([]tool.Tool, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	w := workspace{
		root:  filepath.Clean(root),
		scope: policy.NewWriteScope(root),
	}

	read, err := newReadFileTool(w)
	if err != nil {
		return nil, err
	}
	write, err := newWriteFileTool(w)
	if err != nil {
		return nil, err
	}
	list, err := newListFilesTool(w)
	if err != nil {
		return nil, err
	}
	return []tool.Tool{read, write, list}, nil
}

type readFileArgs struct {
	Path string `json:"path"`
}

func newReadFileTool(w workspace) (tool.Tool, error) {
	return tool.NewBuilder(ReadFileToolName).
		WithDescription("Read a file from the working directory, such as a previous report or note").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"path": tool.StringProperty("Path relative to the working directory"),
		}, []string{"path"})).
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var args readFileArgs
			if err := json.Unmarshal(input, &args); err != nil {
				return tool.Result{}, fmt.Errorf("decode read_file args: %w", err)
			}

			path, err := w.resolve(args.Path)
			if err != nil {
				return tool.Result{}, err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return tool.Result{}, fmt.Errorf("read %s: %w", args.Path, err)
			}
			return tool.NewTextResult(string(data)), nil
		}).
		Build()
}

type writeFileArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func newWriteFileTool(w workspace) (tool.Tool, error) {
	return tool.NewBuilder(WriteFileToolName).
		WithDescription("Write a file into the working directory to keep notes between runs").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"path":    tool.StringProperty("Path relative to the working directory"),
			"content": tool.StringProperty("Full file content to write"),
		}, []string{"path", "content"})).
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var args writeFileArgs
			if err := json.Unmarshal(input, &args); err != nil {
				return tool.Result{}, fmt.Errorf("decode write_file args: %w", err)
			}

			path, err := w.resolve(args.Path)
			if err != nil {
				return tool.Result{}, err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				return tool.Result{}, fmt.Errorf("create parent dir for %s: %w", args.Path, err)
			}
			if err := os.WriteFile(path, []byte(args.Content), 0o600); err != nil {
				return tool.Result{}, fmt.Errorf("write %s: %w", args.Path, err)
			}
			return tool.NewTextResult(fmt.Sprintf("Wrote %d bytes to %s", len(args.Content), args.Path)), nil
		}).
		Build()
}

type listFilesArgs struct {
	Pattern string `json:"pattern"`
}

func newListFilesTool(w workspace) (tool.Tool, error) {
	return tool.NewBuilder(ListFilesToolName).
		WithDescription("List files in the working directory, optionally filtered by a glob pattern").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"pattern": tool.StringProperty("Glob pattern relative to the working directory, e.g. reports/*.md"),
		}, nil)).
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var args listFilesArgs
			if len(input) > 0 {
				if err := json.Unmarshal(input, &args); err != nil {
					return tool.Result{}, fmt.Errorf("decode list_files args: %w", err)
				}
			}

			paths, err := w.list(args.Pattern)
			if err != nil {
				return tool.Result{}, err
			}
			if len(paths) == 0 {
				return tool.NewTextResult("no files found"), nil
			}
			return tool.NewTextResult(strings.Join(paths, "\n")), nil
		}).
		Build()
}

// list returns workspace-relative file paths, all files when pattern is
// empty. Glob matches escaping the root are dropped.
func (w workspace) list(pattern string) ([]string, error) {
	var paths []string

	if pattern == "" {
		err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(w.root, path)
			if err != nil {
				return err
			}
			paths = append(paths, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list workspace: %w", err)
		}
	} else {
		matches, err := filepath.Glob(filepath.Join(w.root, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if w.scope.Validate(m) != nil {
				continue
			}
			rel, err := filepath.Rel(w.root, m)
			if err != nil {
				continue
			}
			paths = append(paths, rel)
		}
	}

	sort.Strings(paths)
	return paths, nil
}
