package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/retry"
)

func fastRetry() retry.Policy {
	return retry.Policy{
		Attempts: 3,
		Delay:    time.Millisecond,
		Retryable: func(err error) bool {
			return errors.Is(err, domain.ErrResourceExhausted)
		},
	}
}

func TestGenerateParsesProtocol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Contains(t, req.Prompt, "Question: what is x?")
		assert.Contains(t, req.System, "ONLY the provided context")

		json.NewEncoder(w).Encode(generateResponse{
			Response: "ANSWER: x is a thing\nCONFIDENCE: 75\nREASONING: stated in context",
			Done:     true,
		})
	}))
	defer srv.Close()

	svc := NewGenerationService(Config{BaseURL: srv.URL, Retry: fastRetry()})

	answer, err := svc.Generate(context.Background(), "x is a thing", "what is x?", domain.QuestionDefinition, "")

	require.NoError(t, err)
	assert.Equal(t, "x is a thing", answer.Text)
	assert.Equal(t, 75, answer.Confidence)
	assert.Equal(t, "stated in context", answer.Reasoning)
}

func TestGenerateRetriesResourceExhaustion(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "CUDA error: out of memory", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "ANSWER: ok\nCONFIDENCE: 80", Done: true})
	}))
	defer srv.Close()

	svc := NewGenerationService(Config{BaseURL: srv.URL, Retry: fastRetry()})

	answer, err := svc.Generate(context.Background(), "ctx", "q", domain.QuestionOther, "")

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "ok", answer.Text)
}

func TestGenerateResourceExhaustionGivesUp(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "model requires more memory than available", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewGenerationService(Config{BaseURL: srv.URL, Retry: fastRetry()})

	_, err := svc.Generate(context.Background(), "ctx", "q", domain.QuestionOther, "")

	assert.ErrorIs(t, err, domain.ErrResourceExhausted)
	assert.Equal(t, 3, calls)
}

func TestGenerateOtherServerErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewGenerationService(Config{BaseURL: srv.URL, Retry: fastRetry()})

	_, err := svc.Generate(context.Background(), "ctx", "q", domain.QuestionOther, "")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrResourceExhausted)
	assert.Equal(t, 1, calls)
}

func TestGenerateUnreachableHostIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Refuse connections.

	svc := NewGenerationService(Config{BaseURL: srv.URL, Retry: fastRetry()})

	_, err := svc.Generate(context.Background(), "ctx", "q", domain.QuestionOther, "")

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestGenerateOpenUsesOpenPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.System, "general knowledge")
		assert.NotContains(t, req.Prompt, "Context:")

		json.NewEncoder(w).Encode(generateResponse{Response: "ANSWER: pi\nCONFIDENCE: 95", Done: true})
	}))
	defer srv.Close()

	svc := NewGenerationService(Config{BaseURL: srv.URL, Retry: fastRetry()})

	answer, err := svc.GenerateOpen(context.Background(), "what is pi?")

	require.NoError(t, err)
	assert.Equal(t, 95, answer.Confidence)
}

func TestDefaults(t *testing.T) {
	svc := NewGenerationService(Config{})
	assert.Equal(t, "llama3.2", svc.ModelName())
}
