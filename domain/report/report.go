// Package report provides the health report document model.
package report

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyReport indicates a report with neither summary nor details.
var ErrEmptyReport = errors.New("report has no content")

// FilenameLayout is the fixed timestamp format used for persisted reports.
const FilenameLayout = "2006-01-02_15-04-05"

// Report is a two-section health report produced once per session when the
// agent signals completion. Never mutated after creation.
type Report struct {
	// Summary is the short paragraph section.
	Summary string

	// Details is the longer analysis section.
	Details string

	// GeneratedAt is the report generation timestamp.
	GeneratedAt time.Time
}

// New creates a report generated now.
func New(summary, details string) Report {
	return Report{
		Summary:     summary,
		Details:     details,
		GeneratedAt: time.Now(),
	}
}

// Filename returns the file name the report is persisted under.
func (r Report) Filename() string {
	return r.GeneratedAt.Format(FilenameLayout) + ".md"
}

// Render produces the Markdown document: a Summary section followed by a
// Details section.
func (r Report) Render() string {
	return fmt.Sprintf("## Summary\n\n%s\n\n## Details\n\n%s", r.Summary, r.Details)
}

// Validate checks the report carries content.
func (r Report) Validate() error {
	if r.Summary == "" && r.Details == "" {
		return ErrEmptyReport
	}
	return nil
}
