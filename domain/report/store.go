package report

import "context"

// Store persists reports to stable storage.
// This is a repository interface - implementations are in infrastructure.
type Store interface {
	// Save writes the report and returns the path it was written to.
	Save(ctx context.Context, r Report) (string, error)
}
