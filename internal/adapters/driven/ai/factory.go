// Package ai provides factory functions for creating AI service
// adapters from user settings, including the cloud-to-local failover
// wiring.
package ai

import (
	"fmt"

	embedfailover "github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/failover"
	ollamaembed "github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/openai"
	llmfailover "github.com/custodia-labs/recall-cli/internal/adapters/driven/llm/failover"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/llm/groq"
	ollamallm "github.com/custodia-labs/recall-cli/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// EmbeddingService builds the embedding stack from settings: the local
// fallback alone when no cloud provider is configured, or the cloud
// provider wrapped with failover when one is. Failover requires equal
// dimensions; a mismatched pair degrades to the cloud provider alone
// with a warning.
func EmbeddingService(settings domain.Settings) (driven.EmbeddingService, error) {
	local := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.EmbeddingFallback.BaseURL,
		Model:      settings.EmbeddingFallback.Model,
		Dimensions: settings.EmbeddingFallback.Dimensions,
	})

	if !settings.Embedding.IsConfigured() {
		return local, nil
	}

	cloud, err := cloudEmbedding(settings.Embedding)
	if err != nil {
		return nil, err
	}
	if cloud == nil {
		return local, nil
	}

	wrapped, err := embedfailover.NewService(cloud, local)
	if err != nil {
		logger.Warn("embedding fallback disabled: %v", err)
		return cloud, nil
	}
	return wrapped, nil
}

func cloudEmbedding(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil
	case domain.AIProviderOllama:
		// An explicit Ollama choice replaces the fallback rather than
		// pairing with it.
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil
	case domain.AIProviderGroq:
		return nil, fmt.Errorf("%w: groq does not serve embeddings", domain.ErrEmbeddingUnavailable)
	default:
		return nil, nil
	}
}

// GenerationService builds the generation stack from settings: the
// local fallback alone when no cloud provider is configured, or the
// cloud provider wrapped with rate-limit failover when one is.
func GenerationService(settings domain.Settings) (driven.GenerationService, error) {
	local := ollamallm.NewGenerationService(ollamallm.Config{
		BaseURL: settings.GenerationFallback.BaseURL,
		Model:   settings.GenerationFallback.Model,
	})

	if !settings.Generation.IsConfigured() {
		return local, nil
	}

	switch settings.Generation.Provider {
	case domain.AIProviderGroq:
		cloud, err := groq.NewGenerationService(groq.Config{
			APIKey:  settings.Generation.APIKey,
			BaseURL: settings.Generation.BaseURL,
			Model:   settings.Generation.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
		}
		return llmfailover.NewService(cloud, local), nil
	case domain.AIProviderOllama:
		return ollamallm.NewGenerationService(ollamallm.Config{
			BaseURL: settings.Generation.BaseURL,
			Model:   settings.Generation.Model,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unsupported generation provider %q",
			domain.ErrGenerationUnavailable, settings.Generation.Provider)
	}
}
