package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuestion indicates a question was blank after trimming.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrDimensionMismatch indicates a vector did not match the index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates no embedding service is configured.
	// Retrieval is impossible without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates no generation service is configured.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// Provider Errors.

	// ErrRateLimited indicates the provider rate limit was exceeded.
	// Recoverable: the failover wrapper retries against the local backend.
	ErrRateLimited = errors.New("rate limited")

	// ErrResourceExhausted indicates the local model host ran out of
	// resources (GPU memory). Transient: retried with backoff.
	ErrResourceExhausted = errors.New("model resources exhausted")

	// ErrProviderUnavailable indicates the provider could not be reached
	// (connection refused, timeout). Terminal: not retried.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// Persistence Errors.

	// ErrStorageUnavailable indicates the backing store could not be
	// reached or written. Fatal for the write that observed it.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
