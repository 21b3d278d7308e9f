package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// IngestService turns files into indexed chunks: extract, chunk, embed
// in batch, append to the vector index.
type IngestService struct {
	extractors []driven.TextExtractor
	chunker    *chunker.Chunker
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
}

var _ driving.IngestService = (*IngestService)(nil)

// NewIngestService creates the ingestion pipeline. Extractors are tried
// in order; the first one that supports the path wins.
func NewIngestService(
	extractors []driven.TextExtractor,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		chunker:    ch,
		embedder:   embedder,
		index:      index,
	}
}

// IngestFile extracts, chunks, embeds, and indexes a file. The source
// file identifier is the base name of the path.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*driving.IngestResult, error) {
	extractor := s.extractorFor(path)
	if extractor == nil {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, filepath.Ext(path))
	}

	text, err := extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	return s.IngestText(ctx, filepath.Base(path), text)
}

// IngestText indexes already-extracted text under the given source file
// identifier. Re-ingesting a file tombstones its previous chunks first
// so stale content stops matching.
func (s *IngestService) IngestText(ctx context.Context, sourceFile, text string) (*driving.IngestResult, error) {
	sourceFile = strings.TrimSpace(sourceFile)
	if sourceFile == "" {
		return nil, fmt.Errorf("%w: source file is empty", domain.ErrInvalidInput)
	}

	logger.Section("Ingest")
	logger.Debug("source: %s (%d bytes)", sourceFile, len(text))

	chunks := s.chunker.Chunk(sourceFile, text)
	if len(chunks) == 0 {
		return &driving.IngestResult{SourceFile: sourceFile}, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	if removed, err := s.index.SoftDelete(ctx, sourceFile); err != nil {
		logger.Warn("tombstoning previous chunks of %s failed: %v", sourceFile, err)
	} else if removed > 0 {
		logger.Info("replaced %d previous chunks of %s", removed, sourceFile)
	}

	positions, err := s.index.Add(ctx, vectors, chunks)
	if err != nil {
		return nil, fmt.Errorf("indexing chunks: %w", err)
	}

	logger.Info("indexed %d chunks from %s", len(chunks), sourceFile)
	return &driving.IngestResult{
		SourceFile: sourceFile,
		Chunks:     len(chunks),
		Positions:  positions,
	}, nil
}

// RemoveFile soft-deletes every chunk from the source file.
func (s *IngestService) RemoveFile(ctx context.Context, sourceFile string) (int, error) {
	sourceFile = strings.TrimSpace(sourceFile)
	if sourceFile == "" {
		return 0, fmt.Errorf("%w: source file is empty", domain.ErrInvalidInput)
	}
	return s.index.SoftDelete(ctx, sourceFile)
}

func (s *IngestService) extractorFor(path string) driven.TextExtractor {
	for _, e := range s.extractors {
		if e.Supports(path) {
			return e
		}
	}
	return nil
}
