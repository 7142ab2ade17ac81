package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/signal/domain/report"
	"github.com/felixgeelhaar/signal/domain/tool"
)

// SubmitReportToolName is the name the submit_report tool is registered under.
const SubmitReportToolName = "mcp__signal__submit_report"

type submitReportArgs struct {
	Summary string `json:"summary"`
	Details string `json:"details"`
}

// NewSubmitReportTool returns the tool the agent calls to persist its final
// report. Submission is the agent's own explicit action; nothing is written
// when the tool is never called.
func NewSubmitReportTool(store report.Store) (tool.Tool, error) {
	return tool.NewBuilder(SubmitReportToolName).
		WithDescription("Submit the final report with summary and details sections").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"summary": tool.StringProperty("Short paragraph for Slack"),
			"details": tool.StringProperty("Longer analysis for thread"),
		}, []string{"summary", "details"})).
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var args submitReportArgs
			if err := json.Unmarshal(input, &args); err != nil {
				return tool.Result{}, fmt.Errorf("decode submit_report args: %w", err)
			}

			r := report.New(args.Summary, args.Details)
			if err := r.Validate(); err != nil {
				return tool.Result{}, err
			}

			path, err := store.Save(ctx, r)
			if err != nil {
				return tool.Result{}, fmt.Errorf("save report: %w", err)
			}

			return tool.NewTextResult(fmt.Sprintf("Report saved to %s", path)), nil
		}).
		Build()
}
