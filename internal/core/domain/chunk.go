package domain

// Chunk is a retrievable unit of document text with source provenance.
// Chunks are created once at ingestion and never mutated afterwards,
// except for the Deleted tombstone flag.
type Chunk struct {
	// ID is the unique identifier assigned at ingestion.
	ID string

	// SourceFile identifies the file the chunk was extracted from.
	SourceFile string

	// ChunkIndex is the ordinal position within the source file.
	ChunkIndex int

	// Text is the chunk content.
	Text string

	// Deleted marks the chunk as soft-deleted. The underlying vector
	// stays in the index; every read path must skip flagged chunks.
	Deleted bool
}

// RetrievedChunk pairs a chunk with its similarity distance from a query.
type RetrievedChunk struct {
	Chunk Chunk

	// Position is the chunk's slot in the vector index.
	Position int

	// Distance is a non-negative dissimilarity score under the index
	// metric (squared Euclidean). Lower means more similar.
	Distance float32
}

// IndexStats reports vector index totals.
type IndexStats struct {
	TotalVectors int `json:"total_vectors"`
	TotalChunks  int `json:"total_chunks"`
	EmbeddingDim int `json:"embedding_dim"`
}
