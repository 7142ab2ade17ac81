// Package anthropic adapts the Anthropic SDK to the domain session
// abstraction. A Query runs the full agentic loop: advertise the registered
// tools, execute the ones the model requests, feed results back, and repeat
// until the model stops asking for tools.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/felixgeelhaar/signal/domain/policy"
	"github.com/felixgeelhaar/signal/domain/session"
	"github.com/felixgeelhaar/signal/domain/tool"
	"github.com/felixgeelhaar/signal/infrastructure/logging"
)

// Session errors.
var (
	// ErrEmptyPrompt indicates a Query with no prompt text.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrTurnLimit indicates the agentic loop exceeded its turn budget
	// without the model reaching a terminal stop reason.
	ErrTurnLimit = errors.New("agent turn limit exceeded")
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5"

const (
	defaultMaxTokens = 8192
	defaultMaxTurns  = 50
)

// MessagesClient captures the subset of the Anthropic SDK client used by the
// session. It is satisfied by *sdk.MessageService so callers can pass either
// a real client or a stub in tests.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Session implements session.Session on top of the Anthropic Messages API.
type Session struct {
	client    MessagesClient
	registry  tool.Registry
	filter    policy.ToolFilter
	model     string
	maxTokens int64
	system    string
	maxTurns  int
}

// Option configures a Session.
type Option func(*Session)

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(s *Session) {
		if model != "" {
			s.model = model
		}
	}
}

// WithMaxTokens caps the completion size per model turn.
func WithMaxTokens(max int) Option {
	return func(s *Session) {
		if max > 0 {
			s.maxTokens = int64(max)
		}
	}
}

// WithSystemPrompt sets the system prompt for the session.
func WithSystemPrompt(prompt string) Option {
	return func(s *Session) {
		s.system = prompt
	}
}

// WithToolFilter restricts which registered tools the model may invoke.
func WithToolFilter(filter policy.ToolFilter) Option {
	return func(s *Session) {
		s.filter = filter
	}
}

// WithMaxTurns bounds the number of model turns per query.
func WithMaxTurns(turns int) Option {
	return func(s *Session) {
		if turns > 0 {
			s.maxTurns = turns
		}
	}
}

// NewSession creates a session over an existing messages client.
func NewSession(client MessagesClient, registry tool.Registry, opts ...Option) *Session {
	s := &Session{
		client:    client,
		registry:  registry,
		model:     DefaultModel,
		maxTokens: defaultMaxTokens,
		maxTurns:  defaultMaxTurns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromAPIKey creates a session backed by the real Anthropic API.
func NewFromAPIKey(apiKey string, registry tool.Registry, opts ...Option) *Session {
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return NewSession(&client.Messages, registry, opts...)
}

// Query implements session.Session. The returned stream is lazy: the agentic
// loop advances only as fast as the consumer reads events.
func (s *Session) Query(ctx context.Context, prompt string) (session.Stream, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	stream := newEventStream()
	go s.run(ctx, prompt, stream)
	return stream, nil
}

var _ session.Session = (*Session)(nil)

// run drives the conversation until the model stops requesting tools. Any
// transport failure terminates the stream with an error; the consumer treats
// that as fatal.
func (s *Session) run(ctx context.Context, prompt string, stream *eventStream) {
	log := logging.Get()

	tools := s.encodeTools()
	messages := []sdk.MessageParam{
		sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
	}

	for turn := 0; turn < s.maxTurns; turn++ {
		params := sdk.MessageNewParams{
			MaxTokens: s.maxTokens,
			Messages:  messages,
			Model:     sdk.Model(s.model),
		}
		if s.system != "" {
			params.System = []sdk.TextBlockParam{{Text: s.system}}
		}
		if len(tools) > 0 {
			params.Tools = tools
		}

		msg, err := s.client.New(ctx, params)
		if err != nil {
			stream.fail(ctx, fmt.Errorf("agent transport: %w", err))
			return
		}

		assistantBlocks := make([]sdk.ContentBlockParamUnion, 0, len(msg.Content))
		var calls []session.ToolInvocationEvent

		for _, block := range msg.Content {
			switch block.Type {
			case "text":
				if block.Text == "" {
					continue
				}
				assistantBlocks = append(assistantBlocks, sdk.NewTextBlock(block.Text))
				if !stream.emit(ctx, session.TextEvent{Text: block.Text}) {
					return
				}
			case "tool_use":
				assistantBlocks = append(assistantBlocks, sdk.NewToolUseBlock(block.ID, block.Input, block.Name))
				call := session.ToolInvocationEvent{
					CallID:   block.ID,
					ToolName: block.Name,
					Input:    block.Input,
				}
				calls = append(calls, call)
				if !stream.emit(ctx, call) {
					return
				}
			}
		}

		if msg.StopReason != sdk.StopReasonToolUse {
			stream.finish()
			return
		}

		resultBlocks := make([]sdk.ContentBlockParamUnion, 0, len(calls))
		for _, call := range calls {
			output, isError := s.invoke(ctx, call.ToolName, call.Input)
			if isError {
				log.Warn().
					Str("tool", call.ToolName).
					Str("call_id", call.CallID).
					Msg("tool invocation returned error result")
			}
			if !stream.emit(ctx, session.ToolResultEvent{
				CallID:  call.CallID,
				Output:  output,
				IsError: isError,
			}) {
				return
			}
			resultBlocks = append(resultBlocks, sdk.NewToolResultBlock(call.CallID, string(output), isError))
		}

		messages = append(messages,
			sdk.NewAssistantMessage(assistantBlocks...),
			sdk.NewUserMessage(resultBlocks...),
		)
	}

	stream.fail(ctx, fmt.Errorf("%w: %d turns", ErrTurnLimit, s.maxTurns))
}

// invoke executes a requested tool. Denials, unknown tools, and execution
// failures all come back as error results for the model rather than faults.
func (s *Session) invoke(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, bool) {
	if err := s.filter.Check(name); err != nil {
		return errorOutput(err.Error()), true
	}

	t, ok := s.registry.Get(name)
	if !ok {
		return errorOutput(fmt.Sprintf("unknown tool: %s", name)), true
	}

	result, err := t.Execute(ctx, input)
	if err != nil {
		return errorOutput(err.Error()), true
	}
	if result.IsError() {
		return errorOutput(result.Error.Error()), true
	}
	return result.Output, false
}

// encodeTools advertises every registered tool the filter permits.
func (s *Session) encodeTools() []sdk.ToolUnionParam {
	if s.registry == nil {
		return nil
	}

	var params []sdk.ToolUnionParam
	for _, t := range s.registry.List() {
		if !s.filter.Allows(t.Name()) {
			continue
		}
		schema, err := toolInputSchema(t.InputSchema())
		if err != nil {
			logging.Get().Warn().Str("tool", t.Name()).Err(err).Msg("skipping tool with invalid schema")
			continue
		}
		u := sdk.ToolUnionParamOfTool(schema, t.Name())
		if u.OfTool != nil && t.Description() != "" {
			u.OfTool.Description = sdk.String(t.Description())
		}
		params = append(params, u)
	}
	return params
}

func toolInputSchema(schema tool.Schema) (sdk.ToolInputSchemaParam, error) {
	if schema.IsEmpty() {
		return sdk.ToolInputSchemaParam{}, nil
	}
	var fields map[string]any
	if err := json.Unmarshal(schema.Raw(), &fields); err != nil {
		return sdk.ToolInputSchemaParam{}, err
	}
	return sdk.ToolInputSchemaParam{ExtraFields: fields}, nil
}

func errorOutput(msg string) json.RawMessage {
	output, _ := json.Marshal(map[string]string{"error": msg})
	return output
}
