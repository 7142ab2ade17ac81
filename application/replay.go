package application

import (
	"context"
	"time"

	"github.com/felixgeelhaar/signal/domain/ledger"
	"github.com/felixgeelhaar/signal/domain/telemetry"
	"github.com/felixgeelhaar/signal/infrastructure/logging"
)

// ReplayEmitter emits one explicitly-timed span per recorded tool call after
// the interactive stream has ended. Spans carry the recorded wall-clock
// timing, not the time of emission.
type ReplayEmitter struct {
	tracer telemetry.Tracer
	now    func() time.Time
}

// NewReplayEmitter creates an emitter over the given tracer.
func NewReplayEmitter(tracer telemetry.Tracer) *ReplayEmitter {
	return &ReplayEmitter{
		tracer: tracer,
		now:    time.Now,
	}
}

// Emit replays every ledger record as a span named after its tool, with the
// recorded start time and the recorded end time. A record that never received
// a result ends at the time of replay. Emission is best-effort telemetry and
// never fails the run.
func (e *ReplayEmitter) Emit(ctx context.Context, led *ledger.Ledger) {
	for _, rec := range led.Records() {
		e.emitRecord(ctx, rec)
	}
}

func (e *ReplayEmitter) emitRecord(ctx context.Context, rec ledger.ToolCallRecord) {
	end := rec.EndOr(e.now())

	_, span := e.tracer.StartSpan(ctx, rec.ToolName,
		telemetry.WithSpanKind(telemetry.SpanKindClient),
		telemetry.WithStartTime(rec.StartedAt),
		telemetry.WithAttributes(
			telemetry.String("tool.call_id", rec.CallID),
			telemetry.String("tool.name", rec.ToolName),
		),
	)

	span.SetAttributes(telemetry.String("input", string(rec.Input)))
	if rec.Status() == ledger.StatusComplete {
		span.SetAttributes(telemetry.String("output", string(rec.Output)))
	} else {
		span.SetAttributes(telemetry.Bool("output.missing", true))
		logging.Warn().Str("call_id", rec.CallID).Str("tool", rec.ToolName).
			Msg("replaying call without result, end time estimated")
	}

	span.End(telemetry.WithEndTime(end))
}
