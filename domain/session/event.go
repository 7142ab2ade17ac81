// Package session defines the conversation abstraction between signal and the
// remote agent runtime: a prompt goes in, a finite ordered stream of typed
// message events comes out.
package session

import "encoding/json"

// Event is a single typed message event observed on a session stream.
// The variant set is closed: assistant text, tool invocation, tool result.
type Event interface {
	isEvent()
}

// TextEvent carries a text fragment authored by the agent itself.
// Text relayed through tool results is never surfaced as a TextEvent.
type TextEvent struct {
	Text string
}

// ToolInvocationEvent signals that the agent requested execution of a named
// tool. CallID is unique per invocation within the session.
type ToolInvocationEvent struct {
	CallID   string
	ToolName string
	Input    json.RawMessage
}

// ToolResultEvent carries the output of a previously requested invocation.
type ToolResultEvent struct {
	CallID  string
	Output  json.RawMessage
	IsError bool
}

func (TextEvent) isEvent()           {}
func (ToolInvocationEvent) isEvent() {}
func (ToolResultEvent) isEvent()     {}
