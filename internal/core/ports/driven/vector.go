package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// VectorIndex stores fixed-dimension vectors with parallel chunk
// metadata and answers k-nearest-neighbour queries over them.
//
// The index is append-only: positions are contiguous integers assigned
// at insertion and never renumbered. Deletion is a tombstone on the
// chunk mapping only; the vector stays searchable but flagged chunks
// must be excluded from every metadata read path. Reclaiming tombstoned
// space requires a full rebuild, which is left as an operational hook.
type VectorIndex interface {
	// Add appends vectors with their parallel chunk metadata and
	// returns the assigned positions. Both the vector data and the
	// mapping are persisted before Add returns; a persistence failure
	// fails the call.
	Add(ctx context.Context, vectors [][]float32, chunks []domain.Chunk) ([]int, error)

	// Search returns the min(k, total) nearest positions to the query
	// vector, ordered by ascending distance. An empty index returns an
	// empty result, never an error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// GetByPositions resolves positions to chunk metadata. The result is
	// aligned 1:1 with the input: positions that are absent from the
	// mapping or tombstoned yield a zero-value Chunk (empty ID).
	GetByPositions(ctx context.Context, positions []int) ([]domain.Chunk, error)

	// SoftDelete tombstones every chunk from the given source file and
	// returns the number flagged. The underlying vectors remain.
	SoftDelete(ctx context.Context, sourceFile string) (int, error)

	// Stats reports index totals.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}

// VectorHit is a single similarity search result.
type VectorHit struct {
	// Position is the matched vector's slot in the index.
	Position int

	// Distance is the squared Euclidean distance to the query.
	// Lower means more similar.
	Distance float32
}
