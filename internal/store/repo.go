package store

import (
	"context"
	"time"

	"github.com/abhisek/leitbox/internal/deck"
)

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit        int       // max results (0 = unlimited)
	From         time.Time // started_at >= From
	To           time.Time // started_at <= To
	CategoryPath string    // exact category path, empty for all
}

// HistoryRecord summarizes one finished learn session.
type HistoryRecord struct {
	ID           int
	SessionID    string
	CategoryPath string
	Start        time.Time
	End          time.Time
	Passed       int
	Failed       int
	Skipped      int
	Relearned    int
}

// Duration returns how long the session lasted.
func (r HistoryRecord) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// CategoryRepo persists the whole category tree.
type CategoryRepo interface {
	// Save replaces the stored tree with root and everything below it.
	// Card IDs are reassigned once the save commits; a failed save leaves
	// them unchanged.
	Save(ctx context.Context, root *deck.Category) error

	// Load rebuilds the stored tree. An empty database yields an empty root.
	Load(ctx context.Context) (*deck.Category, error)
}

// HistoryRepo records learn session summaries.
type HistoryRepo interface {
	// Record stores a session summary.
	Record(ctx context.Context, rec HistoryRecord) error

	// List returns matching sessions, most recent first.
	List(ctx context.Context, opts QueryOpts) ([]HistoryRecord, error)
}
