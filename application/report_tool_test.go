package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/signal/application"
	"github.com/felixgeelhaar/signal/domain/report"
)

type fakeStore struct {
	saved   []report.Report
	path    string
	saveErr error
}

func (s *fakeStore) Save(_ context.Context, r report.Report) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saved = append(s.saved, r)
	return s.path, nil
}

func TestNewSubmitReportTool(t *testing.T) {
	t.Parallel()

	t.Run("persists the report", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{path: "data/reports/2026-08-25_14-30-05.md"}
		tl, err := application.NewSubmitReportTool(store)
		if err != nil {
			t.Fatalf("NewSubmitReportTool() error = %v", err)
		}
		if tl.Name() != application.SubmitReportToolName {
			t.Errorf("Name() = %s", tl.Name())
		}

		res, err := tl.Execute(context.Background(), json.RawMessage(`{"summary":"S","details":"D"}`))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(store.saved) != 1 {
			t.Fatalf("saved reports = %d, want 1", len(store.saved))
		}
		if store.saved[0].Summary != "S" || store.saved[0].Details != "D" {
			t.Errorf("saved = %+v", store.saved[0])
		}
		if !strings.Contains(string(res.Output), store.path) {
			t.Errorf("Output = %s, want saved path echoed", res.Output)
		}
	})

	t.Run("rejects malformed arguments", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		tl, err := application.NewSubmitReportTool(store)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tl.Execute(context.Background(), json.RawMessage(`not json`)); err == nil {
			t.Error("Execute() should reject malformed args")
		}
		if len(store.saved) != 0 {
			t.Error("nothing should be saved on bad args")
		}
	})

	t.Run("rejects empty report", func(t *testing.T) {
		t.Parallel()

		tl, err := application.NewSubmitReportTool(&fakeStore{})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tl.Execute(context.Background(), json.RawMessage(`{}`)); !errors.Is(err, report.ErrEmptyReport) {
			t.Errorf("Execute() error = %v, want ErrEmptyReport", err)
		}
	})

	t.Run("propagates store failures", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("disk full")
		tl, err := application.NewSubmitReportTool(&fakeStore{saveErr: storeErr})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tl.Execute(context.Background(), json.RawMessage(`{"summary":"S","details":"D"}`)); !errors.Is(err, storeErr) {
			t.Errorf("Execute() error = %v, want wrapped store error", err)
		}
	})
}
