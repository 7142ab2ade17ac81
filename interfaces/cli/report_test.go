package cli

import (
	"testing"

	"github.com/felixgeelhaar/signal/application"
)

func TestResolvePrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no argument uses the default prompt verbatim",
			args: nil,
			want: "Report on the last 24 hours.",
		},
		{
			name: "empty argument uses the default prompt",
			args: []string{""},
			want: application.DefaultPrompt,
		},
		{
			name: "argument overrides the default",
			args: []string{"Report on error rates in checkout"},
			want: "Report on error rates in checkout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolvePrompt(tt.args); got != tt.want {
				t.Errorf("resolvePrompt(%q) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}
