package resilience_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixgeelhaar/signal/domain/tool"
	"github.com/felixgeelhaar/signal/infrastructure/resilience"
)

func flakyTool(t *testing.T, failures int, calls *atomic.Int32) tool.Tool {
	t.Helper()

	built, err := tool.NewBuilder("mcp__datadog__search_logs").
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			if int(calls.Add(1)) <= failures {
				return tool.Result{}, errors.New("transient network error")
			}
			return tool.NewResult(input), nil
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return built
}

func TestExecutor_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	exec := resilience.NewExecutorWithOptions(
		resilience.WithRetryAttempts(3),
		resilience.WithRetryDelay(time.Millisecond),
	)

	result, err := exec.Execute(context.Background(), flakyTool(t, 2, &calls), json.RawMessage(`{"q":"x"}`))
	if err != nil {
		t.Fatalf("Execute() error = %v after retries", err)
	}
	if string(result.Output) != `{"q":"x"}` {
		t.Errorf("output = %s", result.Output)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestExecutor_ExhaustedRetriesFail(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	exec := resilience.NewExecutorWithOptions(
		resilience.WithRetryAttempts(2),
		resilience.WithRetryDelay(time.Millisecond),
	)

	if _, err := exec.Execute(context.Background(), flakyTool(t, 10, &calls), nil); err == nil {
		t.Fatal("Execute() should fail once retries are exhausted")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestExecutor_ToolErrorResultNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	built, err := tool.NewBuilder("denied").
		WithHandler(func(_ context.Context, _ json.RawMessage) (tool.Result, error) {
			calls.Add(1)
			return tool.NewErrorResult(errors.New("backend unavailable")), nil
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	exec := resilience.NewExecutorWithOptions(
		resilience.WithRetryAttempts(3),
		resilience.WithRetryDelay(time.Millisecond),
	)
	result, err := exec.Execute(context.Background(), built, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.IsError() {
		t.Error("error result should pass through")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, error results must not be retried", calls.Load())
	}
}

func TestExecutor_WrapPreservesIdentity(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	exec := resilience.NewDefaultExecutor()
	wrapped := exec.Wrap(flakyTool(t, 0, &calls))

	if wrapped.Name() != "mcp__datadog__search_logs" {
		t.Errorf("Name() = %s", wrapped.Name())
	}

	result, err := wrapped.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.IsError() {
		t.Error("unexpected error result")
	}
}
