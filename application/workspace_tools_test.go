package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/signal/application"
	"github.com/felixgeelhaar/signal/domain/policy"
	"github.com/felixgeelhaar/signal/domain/tool"
)

func workspaceTool(t *testing.T, tools []tool.Tool, name string) tool.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Name() == name {
			return tl
		}
	}
	t.Fatalf("tool %s not built", name)
	return nil
}

func textContent(t *testing.T, res tool.Result) string {
	t.Helper()
	var body struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(res.Output, &body); err != nil {
		t.Fatalf("decode result %s: %v", res.Output, err)
	}
	return body.Content
}

func TestWorkspaceTools_WriteThenRead(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	tools, err := application.NewWorkspaceTools(root)
	if err != nil {
		t.Fatalf("NewWorkspaceTools() error = %v", err)
	}

	write := workspaceTool(t, tools, application.WriteFileToolName)
	res, err := write.Execute(context.Background(), json.RawMessage(`{"path":"notes/today.md","content":"checkout error rate elevated"}`))
	if err != nil {
		t.Fatalf("write error = %v", err)
	}
	if res.IsError() {
		t.Fatalf("write result error = %v", res.Error)
	}

	data, err := os.ReadFile(filepath.Join(root, "notes", "today.md"))
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if string(data) != "checkout error rate elevated" {
		t.Errorf("file content = %q", data)
	}

	read := workspaceTool(t, tools, application.ReadFileToolName)
	res, err = read.Execute(context.Background(), json.RawMessage(`{"path":"notes/today.md"}`))
	if err != nil {
		t.Fatalf("read error = %v", err)
	}
	if got := textContent(t, res); got != "checkout error rate elevated" {
		t.Errorf("read content = %q", got)
	}
}

func TestWorkspaceTools_ReadPreviousReport(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	reportPath := filepath.Join(root, "reports", "2026-08-24_10-00-00.md")
	if err := os.MkdirAll(filepath.Dir(reportPath), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(reportPath, []byte("## Summary\n\nAll clear.\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tools, err := application.NewWorkspaceTools(root)
	if err != nil {
		t.Fatal(err)
	}

	read := workspaceTool(t, tools, application.ReadFileToolName)
	res, err := read.Execute(context.Background(), json.RawMessage(`{"path":"reports/2026-08-24_10-00-00.md"}`))
	if err != nil {
		t.Fatalf("read error = %v, previous reports must be readable", err)
	}
	if got := textContent(t, res); got != "## Summary\n\nAll clear.\n" {
		t.Errorf("read content = %q", got)
	}
}

func TestWorkspaceTools_RejectsEscapingPaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	tools, err := application.NewWorkspaceTools(root)
	if err != nil {
		t.Fatal(err)
	}

	write := workspaceTool(t, tools, application.WriteFileToolName)
	if _, err := write.Execute(context.Background(), json.RawMessage(`{"path":"../escape.md","content":"x"}`)); !errors.Is(err, policy.ErrOutsideScope) {
		t.Errorf("write outside root error = %v, want ErrOutsideScope", err)
	}

	read := workspaceTool(t, tools, application.ReadFileToolName)
	if _, err := read.Execute(context.Background(), json.RawMessage(`{"path":"../../etc/passwd"}`)); !errors.Is(err, policy.ErrOutsideScope) {
		t.Errorf("read outside root error = %v, want ErrOutsideScope", err)
	}
	if _, err := read.Execute(context.Background(), json.RawMessage(`{"path":""}`)); !errors.Is(err, application.ErrEmptyPath) {
		t.Errorf("empty path error = %v, want ErrEmptyPath", err)
	}
}

func TestWorkspaceTools_ListFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "reports"), 0o750); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"notes.md", filepath.Join("reports", "old.md")} {
		if err := os.WriteFile(filepath.Join(root, p), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	tools, err := application.NewWorkspaceTools(root)
	if err != nil {
		t.Fatal(err)
	}
	list := workspaceTool(t, tools, application.ListFilesToolName)

	res, err := list.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	want := "notes.md\n" + filepath.Join("reports", "old.md")
	if got := textContent(t, res); got != want {
		t.Errorf("list = %q, want %q", got, want)
	}

	res, err = list.Execute(context.Background(), json.RawMessage(`{"pattern":"reports/*"}`))
	if err != nil {
		t.Fatalf("list with pattern error = %v", err)
	}
	if got := textContent(t, res); got != filepath.Join("reports", "old.md") {
		t.Errorf("filtered list = %q", got)
	}
}
