package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// LearnedAnswerStore persists answers promoted to permanent storage.
// Records are keyed by the normalised question; matching is exact.
//
// Semantic or fuzzy matching is deliberately out of scope: it would
// change the cache's hit-rate and cost characteristics. Implementing it
// means swapping this port's implementation, not extending callers.
type LearnedAnswerStore interface {
	// Lookup finds a record by normalised question. On a hit it
	// atomically increments the access count, updates the last-accessed
	// time, and returns the record. A miss returns domain.ErrNotFound.
	Lookup(ctx context.Context, question string) (*domain.LearnedAnswer, error)

	// Save upserts a record keyed by normalised question. A later save
	// for the same question overwrites answer, confidence, and source
	// but preserves the accumulated access count.
	Save(ctx context.Context, rec domain.LearnedAnswer) error

	// List returns records ordered newest first, up to limit.
	List(ctx context.Context, limit int) ([]domain.LearnedAnswer, error)

	// Forget removes the record for the normalised question. Returns
	// true if a record was removed.
	Forget(ctx context.Context, question string) (bool, error)

	// Stats reports cache totals.
	Stats(ctx context.Context) (domain.LearnedStats, error)

	// Close releases resources.
	Close() error
}
