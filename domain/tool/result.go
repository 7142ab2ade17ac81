package tool

import "encoding/json"

// Result contains the output of a tool execution.
type Result struct {
	// Output is the structured content payload.
	Output json.RawMessage `json:"output"`

	// Error is a tool-level error (distinct from execution error).
	Error error `json:"-"`
}

// NewResult creates a successful result with the given output.
func NewResult(output json.RawMessage) Result {
	return Result{Output: output}
}

// NewTextResult creates a result carrying a single text content payload.
func NewTextResult(text string) Result {
	output, _ := json.Marshal(map[string]string{"content": text})
	return Result{Output: output}
}

// NewErrorResult creates a result representing an error.
func NewErrorResult(err error) Result {
	return Result{Error: err}
}

// IsError returns true if the result represents an error.
func (r Result) IsError() bool {
	return r.Error != nil
}
