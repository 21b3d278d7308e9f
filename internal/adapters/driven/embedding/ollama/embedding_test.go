package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, capture *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		require.Equal(t, "/api/embeddings", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*capture = append(*capture, req.Prompt)

		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.1, 0.2, 0.3}})
	}))
}

func TestEmbedAppliesDocumentPrefix(t *testing.T) {
	var prompts []string
	srv := newTestServer(t, &prompts)
	defer srv.Close()

	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Model: "nomic-embed-text"})

	vec, err := svc.Embed(context.Background(), "some document")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	require.Len(t, prompts, 1)
	assert.Equal(t, "search_document: some document", prompts[0])
}

func TestEmbedQueryAppliesQueryPrefix(t *testing.T) {
	var prompts []string
	srv := newTestServer(t, &prompts)
	defer srv.Close()

	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Model: "nomic-embed-text"})

	_, err := svc.EmbedQuery(context.Background(), "what is x?")

	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, "search_query: what is x?", prompts[0])
}

func TestNoPrefixForOtherModels(t *testing.T) {
	var prompts []string
	srv := newTestServer(t, &prompts)
	defer srv.Close()

	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Model: "all-minilm"})

	_, err := svc.EmbedQuery(context.Background(), "plain")

	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, "plain", prompts[0])
}

func TestEmbedBatchSequential(t *testing.T) {
	var prompts []string
	srv := newTestServer(t, &prompts)
	defer srv.Close()

	svc := NewEmbeddingService(Config{BaseURL: srv.URL})

	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Len(t, prompts, 2)
}

func TestEmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewEmbeddingService(Config{BaseURL: srv.URL})

	_, err := svc.Embed(context.Background(), "text")
	assert.ErrorContains(t, err, "status 404")
}

func TestPing(t *testing.T) {
	var prompts []string
	srv := newTestServer(t, &prompts)
	defer srv.Close()

	svc := NewEmbeddingService(Config{BaseURL: srv.URL})
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestDefaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, "nomic-embed-text", svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
}
