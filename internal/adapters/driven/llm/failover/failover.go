// Package failover wraps a cloud generation service with a local
// fallback and degrades failures into honest zero-confidence answers.
package failover

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.GenerationService = (*Service)(nil)

// Service routes generation to the primary backend, escaping to the
// fallback when the primary is rate limited. When both backends fail
// the error is converted into a zero-confidence answer: callers always
// get an answer value, and the confidence score tells the truth about
// it.
type Service struct {
	primary  driven.GenerationService
	fallback driven.GenerationService
}

// NewService wraps primary with fallback.
func NewService(primary, fallback driven.GenerationService) *Service {
	return &Service{primary: primary, fallback: fallback}
}

// Generate answers from context via the primary, falling back on rate
// limits.
func (s *Service) Generate(ctx context.Context, contextText, question string, qtype domain.QuestionType, guidance string) (domain.Answer, error) {
	return s.route(ctx, func(backend driven.GenerationService) (domain.Answer, error) {
		return backend.Generate(ctx, contextText, question, qtype, guidance)
	})
}

// GenerateOpen answers from general knowledge via the primary, falling
// back on rate limits.
func (s *Service) GenerateOpen(ctx context.Context, question string) (domain.Answer, error) {
	return s.route(ctx, func(backend driven.GenerationService) (domain.Answer, error) {
		return backend.GenerateOpen(ctx, question)
	})
}

func (s *Service) route(ctx context.Context, call func(driven.GenerationService) (domain.Answer, error)) (domain.Answer, error) {
	answer, err := call(s.primary)
	if err == nil {
		return answer, nil
	}
	if ctx.Err() != nil {
		return domain.Answer{}, ctx.Err()
	}

	if errors.Is(err, domain.ErrRateLimited) {
		logger.Warn("%s rate limited, falling back to %s", s.primary.ModelName(), s.fallback.ModelName())
		answer, err = call(s.fallback)
		if err == nil {
			return answer, nil
		}
		if ctx.Err() != nil {
			return domain.Answer{}, ctx.Err()
		}
	}

	// Both paths exhausted. Degrade to a zero-confidence answer instead
	// of an error: the pipeline stays usable and nothing downstream can
	// mistake this for a trustworthy result.
	logger.Error("generation failed: %v", err)
	return domain.Answer{
		Text:       fmt.Sprintf("Unable to generate an answer: %v", err),
		Confidence: 0,
	}, nil
}

// ModelName returns the primary model's name.
func (s *Service) ModelName() string {
	return s.primary.ModelName()
}

// Ping succeeds when either backend is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.primary.Ping(ctx); err == nil {
		return nil
	}
	return s.fallback.Ping(ctx)
}

// Close releases both backends.
func (s *Service) Close() error {
	perr := s.primary.Close()
	ferr := s.fallback.Close()
	if perr != nil {
		return perr
	}
	return ferr
}
