package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: this is separate from VectorIndex, which stores and searches
// vectors. EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - OpenAI-compatible cloud APIs (text-embedding-3-small, ...)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for document text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery generates a query-optimised embedding. Models that
	// distinguish query and passage embeddings apply their query
	// instruction here; others behave identically to Embed.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// This must match the VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
