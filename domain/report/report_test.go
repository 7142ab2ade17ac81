package report_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/signal/domain/report"
)

func TestReport_Render(t *testing.T) {
	t.Parallel()

	r := report.Report{Summary: "S", Details: "D"}
	got := r.Render()
	want := "## Summary\n\nS\n\n## Details\n\nD"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	sumIdx := strings.Index(got, "## Summary")
	detIdx := strings.Index(got, "## Details")
	if sumIdx < 0 || detIdx < 0 || sumIdx > detIdx {
		t.Error("Render() must contain Summary before Details")
	}
}

func TestReport_Filename(t *testing.T) {
	t.Parallel()

	r := report.Report{
		Summary:     "S",
		GeneratedAt: time.Date(2026, 8, 25, 14, 30, 5, 0, time.UTC),
	}
	if got := r.Filename(); got != "2026-08-25_14-30-05.md" {
		t.Errorf("Filename() = %s, want 2026-08-25_14-30-05.md", got)
	}

	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.md$`)
	if !pattern.MatchString(report.New("S", "D").Filename()) {
		t.Errorf("Filename() %s does not match the fixed naming convention", report.New("S", "D").Filename())
	}
}

func TestReport_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		summary string
		details string
		wantErr bool
	}{
		{name: "both sections", summary: "S", details: "D", wantErr: false},
		{name: "summary only", summary: "S", wantErr: false},
		{name: "details only", details: "D", wantErr: false},
		{name: "empty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := report.Report{Summary: tt.summary, Details: tt.details}
			if err := r.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
