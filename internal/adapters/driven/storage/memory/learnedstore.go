// Package memory provides in-memory implementations of the driven
// storage ports, used by tests and ephemeral sessions.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure LearnedStore implements the interface.
var _ driven.LearnedAnswerStore = (*LearnedStore)(nil)

// LearnedStore is an in-memory learned-answer store.
type LearnedStore struct {
	mu      sync.RWMutex
	records map[string]domain.LearnedAnswer
}

// NewLearnedStore creates a new in-memory learned-answer store.
func NewLearnedStore() *LearnedStore {
	return &LearnedStore{
		records: make(map[string]domain.LearnedAnswer),
	}
}

// Lookup finds a record by normalised question and bumps its access count.
func (s *LearnedStore) Lookup(ctx context.Context, question string) (*domain.LearnedAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.NormalizeQuestion(question)
	rec, ok := s.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}

	rec.AccessCount++
	rec.LastAccessed = time.Now().UTC()
	s.records[key] = rec
	return &rec, nil
}

// Save upserts a record. New records start with an access count of 1;
// on conflict the accumulated access count and creation time are
// preserved.
func (s *LearnedStore) Save(ctx context.Context, rec domain.LearnedAnswer) error {
	key := domain.NormalizeQuestion(rec.Question)
	if key == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.LastAccessed.IsZero() {
		rec.LastAccessed = rec.CreatedAt
	}

	if existing, ok := s.records[key]; ok {
		rec.AccessCount = existing.AccessCount
		rec.CreatedAt = existing.CreatedAt
	} else if rec.AccessCount <= 0 {
		// A freshly learned answer counts its own creation as one access.
		rec.AccessCount = 1
	}
	s.records[key] = rec
	return nil
}

// List returns records ordered newest first, up to limit.
func (s *LearnedStore) List(ctx context.Context, limit int) ([]domain.LearnedAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LearnedAnswer, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Forget removes the record for the normalised question.
func (s *LearnedStore) Forget(ctx context.Context, question string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.NormalizeQuestion(question)
	_, ok := s.records[key]
	delete(s.records, key)
	return ok, nil
}

// Stats reports cache totals.
func (s *LearnedStore) Stats(ctx context.Context) (domain.LearnedStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.LearnedStats{Total: len(s.records)}
	if stats.Total == 0 {
		return stats, nil
	}

	sum := 0
	for _, rec := range s.records {
		sum += rec.Confidence
	}
	stats.AvgConfidence = float64(sum) / float64(stats.Total)
	return stats, nil
}

// Close releases resources.
func (s *LearnedStore) Close() error {
	return nil
}
