// Package services implements the core business logic, wired to driven
// ports via constructor injection.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Confidence policy thresholds.
const (
	// LocalDBThreshold is the confidence below which a local answer
	// triggers the open-knowledge offer.
	LocalDBThreshold = 60

	// LearningThreshold is the minimum confidence an open-knowledge
	// answer needs before it is absorbed into the learned cache.
	LearningThreshold = 90

	// DefaultTopK is the retrieval depth surfaces use when the user
	// does not supply one. Ask itself rejects non-positive values.
	DefaultTopK = 5

	// maxFetchK caps the overfetch ahead of diversification.
	maxFetchK = 40
)

// QueryService orchestrates the question-answering pipeline.
type QueryService struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	generator driven.GenerationService
	learned   driven.LearnedAnswerStore
}

var _ driving.QueryService = (*QueryService)(nil)

// NewQueryService creates the query orchestrator.
func NewQueryService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	generator driven.GenerationService,
	learned driven.LearnedAnswerStore,
) *QueryService {
	return &QueryService{
		embedder:  embedder,
		index:     index,
		generator: generator,
		learned:   learned,
	}
}

// Ask runs the primary query path. The stages run in a fixed order:
// learned-cache check, retrieval with overfetch, diversification,
// classification, and context-bound generation. Escalation to open
// knowledge is never automatic; a low-confidence result only sets
// OfferInternet on the way out.
func (s *QueryService) Ask(ctx context.Context, question string, topK int) (*domain.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, topK)
	}

	logger.Section("Query")
	logger.Debug("question: %q (topK=%d)", question, topK)

	// Stage 1: learned-answer cache. A storage error here degrades to a
	// cache miss rather than failing the question.
	if rec, err := s.learned.Lookup(ctx, question); err == nil {
		logger.Info("learned cache hit (access_count=%d)", rec.AccessCount)
		return &domain.QueryResult{
			Question:   question,
			Answer:     rec.Answer,
			Confidence: rec.Confidence,
			Source:     domain.SourceLearned,
		}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("learned cache lookup failed: %v", err)
	}

	// Stage 2: retrieval. Overfetch so diversification has material to
	// rebalance across source files.
	queryVec, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	fetchK := 2 * topK
	if fetchK > maxFetchK {
		fetchK = maxFetchK
	}

	hits, err := s.index.Search(ctx, queryVec, fetchK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	retrieved, err := s.resolveHits(ctx, hits)
	if err != nil {
		return nil, err
	}

	if len(retrieved) == 0 {
		logger.Info("no local documents matched")
		return &domain.QueryResult{
			Question:      question,
			Answer:        "No matching documents found in the local database.",
			Confidence:    0,
			Source:        domain.SourceNone,
			OfferInternet: true,
		}, nil
	}

	// Stage 3: diversification.
	maxChunks, maxPerFile := diversityLimits(topK)
	selected := diversify(retrieved, maxChunks, maxPerFile)
	logger.Debug("retrieved %d chunks, kept %d after diversification", len(retrieved), len(selected))

	// Stage 4: classification.
	qtype := domain.ClassifyQuestion(question)
	logger.Debug("question type: %s", qtype)

	// Stage 5: generation from the assembled context.
	answer, err := s.generator.Generate(ctx, buildContext(selected), question, qtype, qtype.Guidance())
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	refs := make([]domain.SourceRef, 0, len(selected))
	for _, c := range selected {
		refs = append(refs, domain.SourceRef{
			File:       c.Chunk.SourceFile,
			ChunkIndex: c.Chunk.ChunkIndex,
			Distance:   c.Distance,
		})
	}

	result := &domain.QueryResult{
		Question:      question,
		Answer:        answer.Text,
		Confidence:    answer.Confidence,
		Reasoning:     answer.Reasoning,
		Source:        domain.SourceLocalDB,
		Sources:       refs,
		OfferInternet: answer.Confidence < LocalDBThreshold,
	}

	logger.Info("answered from local db (confidence=%d, offer_internet=%t)",
		result.Confidence, result.OfferInternet)
	return result, nil
}

// AskOpenKnowledge runs the caller-initiated open-knowledge path. When
// saveIfConfident is set and the answer clears the learning threshold it
// is absorbed into the learned cache; a failed save degrades to
// SavedToDB=false rather than failing the answer.
func (s *QueryService) AskOpenKnowledge(ctx context.Context, question string, saveIfConfident bool) (*domain.OpenResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	logger.Section("Open Knowledge")

	answer, err := s.generator.GenerateOpen(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("generating open answer: %w", err)
	}

	result := &domain.OpenResult{
		Question:   question,
		Answer:     answer.Text,
		Confidence: answer.Confidence,
		Reasoning:  answer.Reasoning,
		Source:     domain.SourceInternet,
	}

	if saveIfConfident && answer.Confidence >= LearningThreshold {
		now := time.Now().UTC()
		err := s.learned.Save(ctx, domain.LearnedAnswer{
			Question:     question,
			Answer:       answer.Text,
			Confidence:   answer.Confidence,
			Source:       domain.SourceInternet,
			CreatedAt:    now,
			LastAccessed: now,
		})
		if err != nil {
			logger.Warn("saving learned answer failed: %v", err)
		} else {
			result.SavedToDB = true
			logger.Info("answer learned (confidence=%d)", answer.Confidence)
		}
	}

	return result, nil
}

// ListLearned returns cached answers, newest first.
func (s *QueryService) ListLearned(ctx context.Context, limit int) ([]domain.LearnedAnswer, error) {
	return s.learned.List(ctx, limit)
}

// Forget removes a learned answer.
func (s *QueryService) Forget(ctx context.Context, question string) (bool, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return false, domain.ErrEmptyQuestion
	}
	return s.learned.Forget(ctx, question)
}

// Stats reports vector index and learned-cache totals.
func (s *QueryService) Stats(ctx context.Context) (*driving.Stats, error) {
	index, err := s.index.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}
	learned, err := s.learned.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("learned stats: %w", err)
	}
	return &driving.Stats{Index: index, Learned: learned}, nil
}

// resolveHits maps search hits to retrieved chunks, dropping positions
// the index no longer resolves (tombstoned or missing).
func (s *QueryService) resolveHits(ctx context.Context, hits []driven.VectorHit) ([]domain.RetrievedChunk, error) {
	if len(hits) == 0 {
		return nil, nil
	}

	positions := make([]int, len(hits))
	distanceByPos := make(map[int]float32, len(hits))
	for i, h := range hits {
		positions[i] = h.Position
		distanceByPos[h.Position] = h.Distance
	}

	chunks, err := s.index.GetByPositions(ctx, positions)
	if err != nil {
		return nil, fmt.Errorf("resolving chunks: %w", err)
	}

	// The result is aligned with positions; zero-value entries mark
	// tombstoned or missing chunks and are dropped here.
	retrieved := make([]domain.RetrievedChunk, 0, len(chunks))
	for i, c := range chunks {
		if c.ID == "" {
			continue
		}
		retrieved = append(retrieved, domain.RetrievedChunk{
			Chunk:    c,
			Position: positions[i],
			Distance: distanceByPos[positions[i]],
		})
	}
	return retrieved, nil
}

// buildContext assembles the generation context, labelling each chunk
// with its source file so answers can cite provenance.
func buildContext(chunks []domain.RetrievedChunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Source %d: %s\n%s", i+1, c.Chunk.SourceFile, c.Chunk.Text)
	}
	return b.String()
}
