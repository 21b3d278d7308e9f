package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// GenerationService produces confidence-scored answers from a language
// model.
//
// Implementations must instruct the model to answer from the supplied
// context only, request the fixed three-field response protocol
// (ANSWER / CONFIDENCE / REASONING), and clamp parsed confidence to
// [0, 100]. A response without the protocol is taken verbatim as the
// answer with neutral confidence 50.
//
// Error contract: rate limiting surfaces as domain.ErrRateLimited,
// transient local resource exhaustion as domain.ErrResourceExhausted,
// and unreachable hosts (connection refused, timeout) as
// domain.ErrProviderUnavailable. The failover wrapper keys off these
// classes.
type GenerationService interface {
	// Generate answers a question strictly from the supplied context.
	// The question type and guidance steer phrasing only.
	Generate(ctx context.Context, contextText, question string, qtype domain.QuestionType, guidance string) (domain.Answer, error)

	// GenerateOpen answers from general knowledge, with no context
	// constraint. Implementations must instruct the model to report
	// confidence >= 90 only for stable, well-established facts.
	GenerateOpen(ctx context.Context, question string) (domain.Answer, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
