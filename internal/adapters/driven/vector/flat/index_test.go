package flat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func newTestIndex(t *testing.T, dir string) *Index {
	t.Helper()
	idx, err := New(Config{Dir: dir, Dimensions: 3})
	require.NoError(t, err)
	return idx
}

func chunk(id, file string, index int) domain.Chunk {
	return domain.Chunk{ID: id, SourceFile: file, ChunkIndex: index, Text: "text " + id}
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Dimensions: 3})
	assert.ErrorContains(t, err, "directory")

	_, err = New(Config{Dir: t.TempDir()})
	assert.ErrorContains(t, err, "dimensions")
}

func TestAddAssignsContiguousPositions(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	p1, err := idx.Add(ctx, [][]float32{{1, 0, 0}, {0, 1, 0}}, []domain.Chunk{
		chunk("a", "a.txt", 0), chunk("b", "a.txt", 1),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, p1)

	p2, err := idx.Add(ctx, [][]float32{{0, 0, 1}}, []domain.Chunk{chunk("c", "b.txt", 0)})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, p2)
}

func TestAddDimensionMismatch(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())

	_, err := idx.Add(context.Background(), [][]float32{{1, 2}}, []domain.Chunk{chunk("a", "f", 0)})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestAddVectorChunkCountMismatch(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())

	_, err := idx.Add(context.Background(), [][]float32{{1, 2, 3}}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchOrdersByDistance(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Add(ctx, [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}, []domain.Chunk{
		chunk("a", "f", 0), chunk("b", "f", 1), chunk("c", "f", 2),
	})
	require.NoError(t, err)

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].Position)
	assert.Equal(t, 2, hits[1].Position)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchKLargerThanIndex(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Add(ctx, [][]float32{{1, 0, 0}}, []domain.Chunk{chunk("a", "f", 0)})
	require.NoError(t, err)

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 100)

	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchQueryDimensionMismatch(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())

	_, err := idx.Search(context.Background(), []float32{1}, 5)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestGetByPositionsAlignment(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Add(ctx, [][]float32{{1, 0, 0}, {0, 1, 0}}, []domain.Chunk{
		chunk("a", "f", 0), chunk("b", "f", 1),
	})
	require.NoError(t, err)

	chunks, err := idx.GetByPositions(ctx, []int{1, 99, 0})

	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "b", chunks[0].ID)
	assert.Empty(t, chunks[1].ID) // unknown position
	assert.Equal(t, "a", chunks[2].ID)
}

func TestSoftDeleteTombstones(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	_, err := idx.Add(ctx, [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, []domain.Chunk{
		chunk("a", "old.txt", 0), chunk("b", "old.txt", 1), chunk("c", "new.txt", 0),
	})
	require.NoError(t, err)

	n, err := idx.SoftDelete(ctx, "old.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Vectors stay searchable; metadata resolution filters them.
	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)

	chunks, err := idx.GetByPositions(ctx, []int{0, 1, 2})
	require.NoError(t, err)
	assert.Empty(t, chunks[0].ID)
	assert.Empty(t, chunks[1].ID)
	assert.Equal(t, "c", chunks[2].ID)

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalVectors)
	assert.Equal(t, 1, stats.TotalChunks)
}

func TestSoftDeleteUnknownFile(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())

	n, err := idx.SoftDelete(context.Background(), "missing.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	idx := newTestIndex(t, dir)
	_, err := idx.Add(ctx, [][]float32{{1, 0, 0}, {0, 1, 0}}, []domain.Chunk{
		chunk("a", "a.txt", 0), chunk("b", "b.txt", 0),
	})
	require.NoError(t, err)
	_, err = idx.SoftDelete(ctx, "b.txt")
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	reopened := newTestIndex(t, dir)

	stats, err := reopened.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalVectors)
	assert.Equal(t, 1, stats.TotalChunks)

	hits, err := reopened.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Position)

	chunks, err := reopened.GetByPositions(ctx, []int{0})
	require.NoError(t, err)
	assert.Equal(t, "a", chunks[0].ID)
	assert.Equal(t, "text a", chunks[0].Text)
}

func TestLoadRejectsDimensionMismatch(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	idx := newTestIndex(t, dir)
	_, err := idx.Add(ctx, [][]float32{{1, 0, 0}}, []domain.Chunk{chunk("a", "f", 0)})
	require.NoError(t, err)

	_, err = New(Config{Dir: dir, Dimensions: 4})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestLoadRejectsTornVectorsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, vectorsFile), []byte{1, 2, 3}, 0600))

	_, err := New(Config{Dir: dir, Dimensions: 3})
	assert.ErrorContains(t, err, "too short")
}

func TestVectorCodecRoundTrip(t *testing.T) {
	vectors := [][]float32{{1.5, -2.25, 0}, {0.001, 42, -1}}

	decoded, dim, err := decodeVectors(encodeVectors(vectors, 3))

	require.NoError(t, err)
	assert.Equal(t, 3, dim)
	assert.Equal(t, vectors, decoded)
}

func TestSearchTiesBreakByPosition(t *testing.T) {
	idx := newTestIndex(t, t.TempDir())
	ctx := context.Background()

	var chunks []domain.Chunk
	vectors := make([][]float32, 4)
	for i := range vectors {
		vectors[i] = []float32{0, 1, 0}
		chunks = append(chunks, chunk(fmt.Sprintf("c%d", i), "f", i))
	}
	_, err := idx.Add(ctx, vectors, chunks)
	require.NoError(t, err)

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 4)

	require.NoError(t, err)
	for i, h := range hits {
		assert.Equal(t, i, h.Position)
	}
}
