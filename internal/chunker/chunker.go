// Package chunker provides fixed-size text chunking with overlap.
package chunker

import (
	"github.com/google/uuid"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// Chunker splits extracted text into fixed-size chunks with overlap.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: domain.DefaultChunkSize,
		overlap:   domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave the window moving forward.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Chunk splits text into chunks attributed to sourceFile. Chunk indexes
// are ordinals within the file; empty text produces no chunks.
func (c *Chunker) Chunk(sourceFile, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	textLen := len(text)
	step := c.chunkSize - c.overlap

	chunks := make([]domain.Chunk, 0, textLen/step+1)
	index := 0

	for start := 0; start < textLen; start += step {
		end := start + c.chunkSize
		if end > textLen {
			end = textLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			SourceFile: sourceFile,
			ChunkIndex: index,
			Text:       text[start:end],
		})
		index++

		if end == textLen {
			break
		}
	}

	return chunks
}
