package domain

import (
	"strings"
	"time"
)

// AnswerSource identifies where an answer came from.
type AnswerSource string

// Available answer sources.
const (
	// SourceLearned means the answer came from the learned-answer cache.
	SourceLearned AnswerSource = "learned"

	// SourceLocalDB means the answer was generated from indexed documents.
	SourceLocalDB AnswerSource = "local_db"

	// SourceInternet means the answer was generated from open knowledge.
	SourceInternet AnswerSource = "internet"

	// SourceNone means no documents were available to answer from.
	SourceNone AnswerSource = "none"
)

// String returns the string representation.
func (s AnswerSource) String() string {
	return string(s)
}

// Answer is a generated response with a self-reported confidence estimate.
type Answer struct {
	// Text is the answer content.
	Text string

	// Confidence estimates how well the supplied context supports the
	// answer, as an integer in [0, 100].
	Confidence int

	// Reasoning is the model's explanation of its confidence.
	Reasoning string

	// Source records the answer's provenance.
	Source AnswerSource
}

// SourceRef points at a chunk that contributed context to an answer.
type SourceRef struct {
	// File is the source file identifier.
	File string `json:"file"`

	// ChunkIndex is the chunk's ordinal within the file.
	ChunkIndex int `json:"chunk_index"`

	// Distance is the retrieval distance (lower = more similar).
	Distance float32 `json:"distance"`
}

// QueryResult is the outcome of the primary query path.
type QueryResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`

	// Confidence is the generation step's self-estimate in [0, 100].
	Confidence int          `json:"confidence"`
	Reasoning  string       `json:"reasoning,omitempty"`
	Source     AnswerSource `json:"source"`
	Sources    []SourceRef  `json:"sources,omitempty"`

	// OfferInternet is set when local confidence fell below the
	// local-database threshold. Escalation is caller-driven; the
	// orchestrator never queries open knowledge on its own.
	OfferInternet bool `json:"offer_internet"`
}

// OpenResult is the outcome of the caller-initiated open-knowledge path.
type OpenResult struct {
	Question   string       `json:"question"`
	Answer     string       `json:"answer"`
	Confidence int          `json:"confidence"`
	Reasoning  string       `json:"reasoning,omitempty"`
	Source     AnswerSource `json:"source"`

	// SavedToDB reports whether the answer was absorbed into the
	// learned-answer cache.
	SavedToDB bool `json:"saved_to_db"`
}

// LearnedAnswer is a cached answer promoted to permanent storage.
// At most one record exists per normalised question.
type LearnedAnswer struct {
	// Question is the original question text as asked.
	Question string `json:"question"`

	// Answer is the cached answer text.
	Answer string `json:"answer"`

	// Confidence is the confidence the answer was saved with.
	Confidence int `json:"confidence"`

	// Source is the provenance of the original answer.
	Source AnswerSource `json:"source"`

	// SourceQuery is the query that produced the answer, when distinct
	// from the question itself.
	SourceQuery string `json:"source_query,omitempty"`

	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	AccessCount  int       `json:"access_count"`
}

// LearnedStats reports learned-answer cache totals.
type LearnedStats struct {
	Total         int     `json:"total"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// NormalizeQuestion maps a question to its cache key: trimmed and
// case-folded. Lookup and upsert must agree on this form.
func NormalizeQuestion(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}
