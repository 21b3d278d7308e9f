package file

import (
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Configuration keys, dot-notation as flattened from the TOML file.
const (
	KeyEmbeddingProvider   = "embedding.provider"
	KeyEmbeddingModel      = "embedding.model"
	KeyEmbeddingBaseURL    = "embedding.base_url"
	KeyEmbeddingAPIKey     = "embedding.api_key"
	KeyEmbeddingDimensions = "embedding.dimensions"

	KeyEmbedFallbackModel   = "embedding_fallback.model"
	KeyEmbedFallbackBaseURL = "embedding_fallback.base_url"

	KeyGenerationProvider = "generation.provider"
	KeyGenerationModel    = "generation.model"
	KeyGenerationBaseURL  = "generation.base_url"
	KeyGenerationAPIKey   = "generation.api_key"

	KeyGenFallbackModel   = "generation_fallback.model"
	KeyGenFallbackBaseURL = "generation_fallback.base_url"

	KeyChunkSize    = "chunking.size"
	KeyChunkOverlap = "chunking.overlap"
)

// LoadSettings reads domain settings from a config store, applying
// defaults for anything unset. The fallback providers are always local
// Ollama; only their model and endpoint are configurable.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	settings := domain.DefaultSettings()

	settings.Embedding = domain.EmbeddingSettings{
		Provider:   domain.AIProvider(store.GetString(KeyEmbeddingProvider)),
		Model:      store.GetString(KeyEmbeddingModel),
		BaseURL:    store.GetString(KeyEmbeddingBaseURL),
		APIKey:     store.GetString(KeyEmbeddingAPIKey),
		Dimensions: store.GetInt(KeyEmbeddingDimensions),
	}
	settings.EmbeddingFallback.Model = store.GetString(KeyEmbedFallbackModel)
	settings.EmbeddingFallback.BaseURL = store.GetString(KeyEmbedFallbackBaseURL)

	settings.Generation = domain.GenerationSettings{
		Provider: domain.AIProvider(store.GetString(KeyGenerationProvider)),
		Model:    store.GetString(KeyGenerationModel),
		BaseURL:  store.GetString(KeyGenerationBaseURL),
		APIKey:   store.GetString(KeyGenerationAPIKey),
	}
	settings.GenerationFallback.Model = store.GetString(KeyGenFallbackModel)
	settings.GenerationFallback.BaseURL = store.GetString(KeyGenFallbackBaseURL)

	if size := store.GetInt(KeyChunkSize); size > 0 {
		settings.ChunkSize = size
	}
	if overlap := store.GetInt(KeyChunkOverlap); overlap > 0 {
		settings.ChunkOverlap = overlap
	}

	return settings
}

// SaveSettings writes domain settings to a config store.
func SaveSettings(store driven.ConfigStore, settings domain.Settings) error {
	pairs := []struct {
		key   string
		value any
	}{
		{KeyEmbeddingProvider, settings.Embedding.Provider.String()},
		{KeyEmbeddingModel, settings.Embedding.Model},
		{KeyEmbeddingBaseURL, settings.Embedding.BaseURL},
		{KeyEmbeddingAPIKey, settings.Embedding.APIKey},
		{KeyEmbeddingDimensions, settings.Embedding.Dimensions},
		{KeyEmbedFallbackModel, settings.EmbeddingFallback.Model},
		{KeyEmbedFallbackBaseURL, settings.EmbeddingFallback.BaseURL},
		{KeyGenerationProvider, settings.Generation.Provider.String()},
		{KeyGenerationModel, settings.Generation.Model},
		{KeyGenerationBaseURL, settings.Generation.BaseURL},
		{KeyGenerationAPIKey, settings.Generation.APIKey},
		{KeyGenFallbackModel, settings.GenerationFallback.Model},
		{KeyGenFallbackBaseURL, settings.GenerationFallback.BaseURL},
		{KeyChunkSize, settings.ChunkSize},
		{KeyChunkOverlap, settings.ChunkOverlap},
	}

	for _, p := range pairs {
		if err := store.Set(p.key, p.value); err != nil {
			return err
		}
	}
	return store.Save()
}
