package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func TestEmbeddingServiceDefaultsToLocal(t *testing.T) {
	svc, err := EmbeddingService(domain.DefaultSettings())

	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
}

func TestEmbeddingServiceCloudWithMatchingFallback(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider:   domain.AIProviderOpenAI,
		APIKey:     "sk-test",
		Dimensions: 768,
	}
	settings.EmbeddingFallback.Dimensions = 768

	svc, err := EmbeddingService(settings)

	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
}

func TestEmbeddingServiceDimensionMismatchDropsFallback(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "sk-test",
		// Native 1536 against the local 768 fallback.
	}

	svc, err := EmbeddingService(settings)

	require.NoError(t, err)
	assert.Equal(t, 1536, svc.Dimensions())
}

func TestEmbeddingServiceGroqRejected(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderGroq,
		APIKey:   "gsk-test",
	}

	_, err := EmbeddingService(settings)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestGenerationServiceDefaultsToLocal(t *testing.T) {
	svc, err := GenerationService(domain.DefaultSettings())

	require.NoError(t, err)
	assert.Equal(t, "llama3.2", svc.ModelName())
}

func TestGenerationServiceGroqWithFailover(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Generation = domain.GenerationSettings{
		Provider: domain.AIProviderGroq,
		APIKey:   "gsk-test",
	}

	svc, err := GenerationService(settings)

	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", svc.ModelName())
}

func TestGenerationServiceUnsupportedProvider(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Generation = domain.GenerationSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "sk-test",
	}

	_, err := GenerationService(settings)
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestGenerationServiceExplicitOllama(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Generation = domain.GenerationSettings{
		Provider: domain.AIProviderOllama,
		Model:    "mistral",
	}

	svc, err := GenerationService(settings)

	require.NoError(t, err)
	assert.Equal(t, "mistral", svc.ModelName())
}
