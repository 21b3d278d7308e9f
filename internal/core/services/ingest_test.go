package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// mockExtractor implements driven.TextExtractor for tests.
type mockExtractor struct {
	ext  string
	text string
	err  error
}

func (m *mockExtractor) Supports(path string) bool {
	return strings.HasSuffix(path, m.ext)
}

func (m *mockExtractor) Extract(path string) (string, error) {
	return m.text, m.err
}

// recordingIndex captures Add calls.
type recordingIndex struct {
	mockIndex
	addedVectors [][]float32
	addedChunks  []domain.Chunk
	addErr       error
	softDeleted  []string
}

func (r *recordingIndex) Add(ctx context.Context, vectors [][]float32, chunks []domain.Chunk) ([]int, error) {
	if r.addErr != nil {
		return nil, r.addErr
	}
	r.addedVectors = vectors
	r.addedChunks = chunks
	positions := make([]int, len(chunks))
	for i := range positions {
		positions[i] = i
	}
	return positions, nil
}

func (r *recordingIndex) SoftDelete(ctx context.Context, sourceFile string) (int, error) {
	r.softDeleted = append(r.softDeleted, sourceFile)
	return r.deleted, nil
}

func newTestIngest(idx driven.VectorIndex, extractors ...driven.TextExtractor) *IngestService {
	return NewIngestService(
		extractors,
		chunker.New(chunker.WithChunkSize(50), chunker.WithOverlap(10)),
		&mockEmbedder{vec: []float32{0.1, 0.2}},
		idx,
	)
}

func TestIngestTextIndexesChunks(t *testing.T) {
	idx := &recordingIndex{}
	svc := newTestIngest(idx)

	result, err := svc.IngestText(context.Background(), "notes.txt", strings.Repeat("a", 120))

	require.NoError(t, err)
	assert.Equal(t, "notes.txt", result.SourceFile)
	assert.Equal(t, len(idx.addedChunks), result.Chunks)
	require.NotEmpty(t, idx.addedChunks)
	assert.Len(t, idx.addedVectors, len(idx.addedChunks))

	for i, c := range idx.addedChunks {
		assert.Equal(t, "notes.txt", c.SourceFile)
		assert.Equal(t, i, c.ChunkIndex)
		assert.NotEmpty(t, c.ID)
	}
}

func TestIngestTextEmptySourceFile(t *testing.T) {
	svc := newTestIngest(&recordingIndex{})

	_, err := svc.IngestText(context.Background(), "  ", "text")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestTextEmptyTextNoChunks(t *testing.T) {
	idx := &recordingIndex{}
	svc := newTestIngest(idx)

	result, err := svc.IngestText(context.Background(), "empty.txt", "")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Chunks)
	assert.Empty(t, idx.addedChunks)
}

func TestIngestTextTombstonesPreviousChunks(t *testing.T) {
	idx := &recordingIndex{}
	svc := newTestIngest(idx)

	_, err := svc.IngestText(context.Background(), "notes.txt", "some content")

	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, idx.softDeleted)
}

func TestIngestFileUsesMatchingExtractor(t *testing.T) {
	idx := &recordingIndex{}
	svc := newTestIngest(idx,
		&mockExtractor{ext: ".md", text: "markdown content"},
		&mockExtractor{ext: ".txt", text: "plain content"},
	)

	result, err := svc.IngestFile(context.Background(), "/docs/readme.txt")

	require.NoError(t, err)
	assert.Equal(t, "readme.txt", result.SourceFile)
	require.NotEmpty(t, idx.addedChunks)
	assert.Equal(t, "plain content", idx.addedChunks[0].Text)
}

func TestIngestFileUnsupportedType(t *testing.T) {
	svc := newTestIngest(&recordingIndex{}, &mockExtractor{ext: ".txt"})

	_, err := svc.IngestFile(context.Background(), "/docs/image.png")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestFileExtractError(t *testing.T) {
	svc := newTestIngest(&recordingIndex{}, &mockExtractor{ext: ".txt", err: errors.New("unreadable")})

	_, err := svc.IngestFile(context.Background(), "/docs/broken.txt")
	assert.ErrorContains(t, err, "unreadable")
}

func TestRemoveFile(t *testing.T) {
	idx := &recordingIndex{}
	idx.deleted = 4
	svc := newTestIngest(idx)

	n, err := svc.RemoveFile(context.Background(), "old.txt")

	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"old.txt"}, idx.softDeleted)
}

func TestRemoveFileEmptyName(t *testing.T) {
	svc := newTestIngest(&recordingIndex{})

	_, err := svc.RemoveFile(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
