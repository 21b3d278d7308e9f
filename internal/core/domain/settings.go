package domain

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is the Groq cloud API (OpenAI-compatible).
	AIProviderGroq AIProvider = "groq"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGroq:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGroq
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	default:
		return "Unknown"
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Dimensions overrides the model's default vector size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// GenerationSettings holds generation provider configuration.
type GenerationSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the generation provider is set up.
func (g GenerationSettings) IsConfigured() bool {
	if !g.Provider.IsValid() {
		return false
	}
	if g.Provider.RequiresAPIKey() && g.APIKey == "" {
		return false
	}
	return true
}

// Settings aggregates all user-tunable configuration.
type Settings struct {
	// Embedding configures the cloud embedding provider.
	Embedding EmbeddingSettings

	// EmbeddingFallback configures the local embedding fallback.
	EmbeddingFallback EmbeddingSettings

	// Generation configures the cloud generation provider.
	Generation GenerationSettings

	// GenerationFallback configures the local generation fallback.
	GenerationFallback GenerationSettings

	// ChunkSize is the ingestion chunk size in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between adjacent chunks in characters.
	ChunkOverlap int
}

// Defaults for ingestion chunking. Smaller chunks with generous overlap
// keep retrieval precise without losing information at boundaries.
const (
	DefaultChunkSize    = 400
	DefaultChunkOverlap = 100
)

// DefaultSettings returns settings with chunking defaults applied and a
// local Ollama fallback preconfigured.
func DefaultSettings() Settings {
	return Settings{
		EmbeddingFallback: EmbeddingSettings{
			Provider: AIProviderOllama,
		},
		GenerationFallback: GenerationSettings{
			Provider: AIProviderOllama,
		},
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
	}
}
