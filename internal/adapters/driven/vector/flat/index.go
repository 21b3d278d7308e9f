// Package flat provides a brute-force vector index with file-backed
// persistence.
//
// The index is a plain slice of vectors searched by linear scan under
// squared Euclidean distance. At the corpus sizes a personal document
// base reaches this is faster than any approximate structure would pay
// for, and it is exact.
//
// On disk the index is two files in one directory: vectors.bin holds
// the raw little-endian float32 matrix behind a small header, and
// mapping.json holds the position-to-chunk metadata. Both are written
// atomically on every mutation, so a crash leaves the previous
// generation intact.
package flat

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/atomicfile"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// On-disk file names.
const (
	vectorsFile = "vectors.bin"
	mappingFile = "mapping.json"
)

// Config holds configuration for the flat index.
type Config struct {
	// Dir is the directory holding the index files (required).
	Dir string

	// Dimensions is the expected vector size (required). Loading an
	// index persisted with a different dimension fails.
	Dimensions int
}

// Index is an append-only flat vector index. Positions are assigned
// contiguously at insertion and never renumbered; deletion tombstones
// the chunk mapping only.
type Index struct {
	mu      sync.RWMutex
	dir     string
	dim     int
	vectors [][]float32
	chunks  map[int]domain.Chunk
}

// mapping is the JSON shape of mapping.json. Positions are stringified
// integers because JSON objects only key on strings.
type mapping struct {
	Dimensions int                    `json:"dimensions"`
	Chunks     map[string]mappedChunk `json:"chunks"`
}

type mappedChunk struct {
	ID         string `json:"id"`
	SourceFile string `json:"source_file"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	Deleted    bool   `json:"deleted,omitempty"`
}

// New opens or creates a flat index in cfg.Dir.
func New(cfg Config) (*Index, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("flat: directory is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("flat: dimensions must be positive")
	}

	idx := &Index{
		dir:    cfg.Dir,
		dim:    cfg.Dimensions,
		chunks: map[int]domain.Chunk{},
	}

	if err := idx.load(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Add appends vectors with their parallel chunk metadata. Both files
// are persisted before Add returns.
func (x *Index) Add(ctx context.Context, vectors [][]float32, chunks []domain.Chunk) ([]int, error) {
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: %d vectors for %d chunks", domain.ErrInvalidInput, len(vectors), len(chunks))
	}
	for i, v := range vectors {
		if len(v) != x.dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, index expects %d",
				domain.ErrDimensionMismatch, i, len(v), x.dim)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	base := len(x.vectors)
	positions := make([]int, len(vectors))
	for i := range vectors {
		positions[i] = base + i
	}

	x.vectors = append(x.vectors, vectors...)
	for i, c := range chunks {
		x.chunks[positions[i]] = c
	}

	if err := x.persist(); err != nil {
		// Roll back the in-memory state so memory and disk agree.
		x.vectors = x.vectors[:base]
		for _, p := range positions {
			delete(x.chunks, p)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	return positions, nil
}

// Search returns the min(k, total) nearest positions by ascending
// squared Euclidean distance. Tombstoned positions still match; callers
// filter them at metadata resolution.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			domain.ErrDimensionMismatch, len(query), x.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.vectors) == 0 {
		return nil, nil
	}

	hits := make([]driven.VectorHit, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = driven.VectorHit{Position: i, Distance: squaredL2(query, v)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Position < hits[j].Position
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// GetByPositions resolves positions to chunks, aligned 1:1 with the
// input. Missing or tombstoned positions yield a zero-value Chunk.
func (x *Index) GetByPositions(ctx context.Context, positions []int) ([]domain.Chunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]domain.Chunk, len(positions))
	for i, p := range positions {
		c, ok := x.chunks[p]
		if !ok || c.Deleted {
			continue
		}
		out[i] = c
	}
	return out, nil
}

// SoftDelete tombstones every chunk from the given source file.
func (x *Index) SoftDelete(ctx context.Context, sourceFile string) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	flagged := 0
	for p, c := range x.chunks {
		if c.SourceFile == sourceFile && !c.Deleted {
			c.Deleted = true
			x.chunks[p] = c
			flagged++
		}
	}

	if flagged == 0 {
		return 0, nil
	}

	if err := x.persistMapping(); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return flagged, nil
}

// Stats reports index totals. TotalVectors counts every stored vector
// including tombstoned ones; TotalChunks counts live chunks only.
func (x *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	live := 0
	for _, c := range x.chunks {
		if !c.Deleted {
			live++
		}
	}

	return domain.IndexStats{
		TotalVectors: len(x.vectors),
		TotalChunks:  live,
		EmbeddingDim: x.dim,
	}, nil
}

// Close releases resources. State is persisted on every mutation, so
// there is nothing to flush.
func (x *Index) Close() error {
	return nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// load reads both index files. A missing directory or missing files
// start an empty index; a dimension mismatch or torn file is an error.
func (x *Index) load() error {
	raw, err := os.ReadFile(filepath.Join(x.dir, vectorsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read vectors: %w", err)
	}

	vectors, dim, err := decodeVectors(raw)
	if err != nil {
		return err
	}
	if len(vectors) > 0 && dim != x.dim {
		return fmt.Errorf("%w: index persisted with %d dimensions, configured for %d",
			domain.ErrDimensionMismatch, dim, x.dim)
	}

	mapRaw, err := os.ReadFile(filepath.Join(x.dir, mappingFile))
	if err != nil {
		return fmt.Errorf("read mapping: %w", err)
	}

	var m mapping
	if err := json.Unmarshal(mapRaw, &m); err != nil {
		return fmt.Errorf("decode mapping: %w", err)
	}

	chunks := make(map[int]domain.Chunk, len(m.Chunks))
	for key, mc := range m.Chunks {
		pos, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("decode mapping: bad position %q", key)
		}
		chunks[pos] = domain.Chunk{
			ID:         mc.ID,
			SourceFile: mc.SourceFile,
			ChunkIndex: mc.ChunkIndex,
			Text:       mc.Text,
			Deleted:    mc.Deleted,
		}
	}

	x.vectors = vectors
	x.chunks = chunks
	logger.Debug("loaded flat index: %d vectors, %d chunks", len(vectors), len(chunks))
	return nil
}

// persist writes both files. Callers hold the write lock.
func (x *Index) persist() error {
	if err := atomicfile.WriteFile(filepath.Join(x.dir, vectorsFile), encodeVectors(x.vectors, x.dim), 0600); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}
	return x.persistMapping()
}

func (x *Index) persistMapping() error {
	m := mapping{
		Dimensions: x.dim,
		Chunks:     make(map[string]mappedChunk, len(x.chunks)),
	}
	for pos, c := range x.chunks {
		m.Chunks[strconv.Itoa(pos)] = mappedChunk{
			ID:         c.ID,
			SourceFile: c.SourceFile,
			ChunkIndex: c.ChunkIndex,
			Text:       c.Text,
			Deleted:    c.Deleted,
		}
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := atomicfile.WriteFile(filepath.Join(x.dir, mappingFile), data, 0600); err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}
	return nil
}

// encodeVectors lays the matrix out as an 8-byte header (uint32
// dimension, uint32 count) followed by row-major little-endian float32
// data.
func encodeVectors(vectors [][]float32, dim int) []byte {
	buf := make([]byte, 8+len(vectors)*dim*4)
	binary.LittleEndian.PutUint32(buf[0:], uint32(dim))
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(vectors)))

	off := 8
	for _, v := range vectors {
		for _, f := range v {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	return buf
}

func decodeVectors(data []byte) ([][]float32, int, error) {
	if len(data) < 8 {
		return nil, 0, fmt.Errorf("decode vectors: file too short")
	}
	dim := int(binary.LittleEndian.Uint32(data[0:]))
	count := int(binary.LittleEndian.Uint32(data[4:]))

	if len(data) != 8+count*dim*4 {
		return nil, 0, fmt.Errorf("decode vectors: expected %d bytes for %d vectors of dimension %d, got %d",
			8+count*dim*4, count, dim, len(data))
	}

	vectors := make([][]float32, count)
	off := 8
	for i := range vectors {
		v := make([]float32, dim)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = v
	}
	return vectors, dim, nil
}
