package application

import (
	"context"

	"github.com/felixgeelhaar/signal/domain/telemetry"
)

// Generator runs one end-to-end report generation: workflow and agent spans
// around the session, tool-span replay once the stream has ended.
type Generator struct {
	runner *Runner
	replay *ReplayEmitter
	tracer telemetry.Tracer
}

// NewGenerator wires a runner and replay emitter under the given tracer.
func NewGenerator(runner *Runner, replay *ReplayEmitter, tracer telemetry.Tracer) *Generator {
	return &Generator{
		runner: runner,
		replay: replay,
		tracer: tracer,
	}
}

// Generate runs the session for the prompt and returns the agent's collected
// output. The workflow span covers the whole exchange; the agent span is
// annotated with the prompt and the output; tool spans are replayed inside
// the agent span scope, strictly after stream completion.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, workflow := g.tracer.StartSpan(ctx, "signal-session",
		telemetry.WithSpanKind(telemetry.SpanKindInternal))
	defer workflow.End()

	ctx, agent := g.tracer.StartSpan(ctx, "signal-agent",
		telemetry.WithSpanKind(telemetry.SpanKindInternal))
	agent.SetAttributes(telemetry.String("input", prompt))

	result, err := g.runner.Run(ctx, prompt)
	if err != nil {
		agent.RecordError(err)
		agent.SetStatus(telemetry.StatusCodeError, err.Error())
		agent.End()
		workflow.SetStatus(telemetry.StatusCodeError, "session failed")
		return "", err
	}

	agent.SetAttributes(telemetry.String("output", result.Output))
	g.replay.Emit(ctx, result.Ledger)
	agent.End()

	return result.Output, nil
}
