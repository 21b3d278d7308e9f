package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// QueryService answers questions over the ingested corpus and manages
// the learned-answer cache.
type QueryService interface {
	// Ask runs the primary query path: learned-cache check, retrieval,
	// diversification, classification, and context-bound generation.
	// topK must be positive; non-positive values are rejected with
	// ErrInvalidInput before any work is done. It never escalates to
	// open knowledge on its own; a low-confidence result only sets
	// OfferInternet.
	Ask(ctx context.Context, question string, topK int) (*domain.QueryResult, error)

	// AskOpenKnowledge runs the caller-initiated open-knowledge path
	// and, when saveIfConfident is set and confidence clears the
	// learning threshold, absorbs the answer into the learned cache.
	AskOpenKnowledge(ctx context.Context, question string, saveIfConfident bool) (*domain.OpenResult, error)

	// ListLearned returns cached answers, newest first.
	ListLearned(ctx context.Context, limit int) ([]domain.LearnedAnswer, error)

	// Forget removes a learned answer. Returns true if one was removed.
	Forget(ctx context.Context, question string) (bool, error)

	// Stats reports vector index and learned-cache totals.
	Stats(ctx context.Context) (*Stats, error)
}

// Stats aggregates administrative counters.
type Stats struct {
	Index   domain.IndexStats   `json:"index"`
	Learned domain.LearnedStats `json:"learned"`
}
