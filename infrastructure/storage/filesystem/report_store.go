// Package filesystem provides filesystem-based storage implementations.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/signal/domain/policy"
	"github.com/felixgeelhaar/signal/domain/report"
	"github.com/felixgeelhaar/signal/infrastructure/logging"
)

// ReportStore implements report.Store on the local filesystem. Every write is
// validated against the write scope so reports can only land inside the
// configured directory.
type ReportStore struct {
	dir   string
	scope policy.WriteScope
	now   func() time.Time
}

// StoreOption configures a ReportStore.
type StoreOption func(*ReportStore)

// WithClock overrides the filename timestamp source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *ReportStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewReportStore creates a report store rooted at dir, creating it if needed.
func NewReportStore(dir string, opts ...StoreOption) (*ReportStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}

	s := &ReportStore{
		dir:   dir,
		scope: policy.NewWriteScope(dir),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save implements report.Store. It renders the report to markdown and writes
// it under a timestamped filename, returning the full path.
func (s *ReportStore) Save(ctx context.Context, r report.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.Validate(); err != nil {
		return "", err
	}

	stamped := r
	if stamped.GeneratedAt.IsZero() {
		stamped.GeneratedAt = s.now()
	}

	path := filepath.Join(s.dir, stamped.Filename())
	if err := s.scope.Validate(path); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(stamped.Render()), 0600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	logging.Info().Str("path", path).Msg("report saved")
	return path, nil
}

var _ report.Store = (*ReportStore)(nil)
