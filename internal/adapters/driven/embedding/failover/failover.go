// Package failover wraps a primary embedding service with a local
// fallback used when the primary is unreachable.
package failover

import (
	"context"
	"fmt"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// Service tries the primary embedding service and falls back to the
// secondary on any error. Both services must produce vectors of the
// same dimension: mixing dimensions would poison the index.
type Service struct {
	primary  driven.EmbeddingService
	fallback driven.EmbeddingService
}

// NewService wraps primary with fallback. The dimension check happens
// here so a misconfigured pair fails at startup, not mid-ingestion.
func NewService(primary, fallback driven.EmbeddingService) (*Service, error) {
	if primary.Dimensions() != fallback.Dimensions() {
		return nil, fmt.Errorf("%w: primary %s produces %d dimensions, fallback %s produces %d",
			domain.ErrDimensionMismatch,
			primary.ModelName(), primary.Dimensions(),
			fallback.ModelName(), fallback.Dimensions())
	}
	return &Service{primary: primary, fallback: fallback}, nil
}

// Embed generates a document embedding, falling back on primary failure.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.primary.Embed(ctx, text)
	if err == nil {
		return vec, nil
	}
	logger.Warn("primary embedder %s failed, using %s: %v", s.primary.ModelName(), s.fallback.ModelName(), err)
	return s.fallback.Embed(ctx, text)
}

// EmbedQuery generates a query embedding, falling back on primary failure.
func (s *Service) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.primary.EmbedQuery(ctx, text)
	if err == nil {
		return vec, nil
	}
	logger.Warn("primary embedder %s failed, using %s: %v", s.primary.ModelName(), s.fallback.ModelName(), err)
	return s.fallback.EmbedQuery(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts, falling back as a
// whole batch so one file never mixes providers.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := s.primary.EmbedBatch(ctx, texts)
	if err == nil {
		return vecs, nil
	}
	logger.Warn("primary embedder %s failed, using %s: %v", s.primary.ModelName(), s.fallback.ModelName(), err)
	return s.fallback.EmbedBatch(ctx, texts)
}

// Dimensions returns the shared embedding vector size.
func (s *Service) Dimensions() int {
	return s.primary.Dimensions()
}

// ModelName returns the primary model's name.
func (s *Service) ModelName() string {
	return s.primary.ModelName()
}

// Ping succeeds when either service is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.primary.Ping(ctx); err == nil {
		return nil
	}
	return s.fallback.Ping(ctx)
}

// Close releases both services.
func (s *Service) Close() error {
	perr := s.primary.Close()
	ferr := s.fallback.Close()
	if perr != nil {
		return perr
	}
	return ferr
}
