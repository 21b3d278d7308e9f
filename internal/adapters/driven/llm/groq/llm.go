// Package groq provides a generation service adapter for the Groq
// cloud API (OpenAI-compatible chat completions).
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/llm/protocol"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure GenerationService implements the interface.
var _ driven.GenerationService = (*GenerationService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
	DefaultTimeout = 120 * time.Second

	// DefaultRequestsPerSecond throttles proactively below Groq's free
	// tier limit so most requests never see a 429 at all.
	DefaultRequestsPerSecond = 0.4
)

// Config holds configuration for the Groq generation service.
type Config struct {
	// APIKey is the Groq API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.groq.com/openai/v1).
	BaseURL string

	// Model is the chat model to use (default: llama-3.3-70b-versatile).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond caps the request rate (default: 0.4).
	RequestsPerSecond float64
}

// GenerationService produces confidence-scored answers via Groq.
// A token bucket throttles requests proactively; a 429 that still gets
// through surfaces as domain.ErrRateLimited for the failover wrapper.
type GenerationService struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewGenerationService creates a new Groq generation service.
func NewGenerationService(cfg Config) (*GenerationService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &GenerationService{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Generate answers a question strictly from the supplied context.
func (s *GenerationService) Generate(ctx context.Context, contextText, question string, qtype domain.QuestionType, guidance string) (domain.Answer, error) {
	system, user := protocol.ContextPrompt(contextText, question, qtype, guidance)
	return s.complete(ctx, system, user)
}

// GenerateOpen answers from general knowledge.
func (s *GenerationService) GenerateOpen(ctx context.Context, question string) (domain.Answer, error) {
	system, user := protocol.OpenPrompt(question)
	return s.complete(ctx, system, user)
}

func (s *GenerationService) complete(ctx context.Context, system, user string) (domain.Answer, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return domain.Answer{}, fmt.Errorf("rate limiter: %w", err)
	}

	jsonBody, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.Answer{}, fmt.Errorf("%w: groq returned 429", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Answer{}, fmt.Errorf("groq error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return domain.Answer{}, fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		return domain.Answer{}, fmt.Errorf("groq error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return domain.Answer{}, fmt.Errorf("groq returned no choices")
	}

	return protocol.Parse(chatResp.Choices[0].Message.Content), nil
}

// ModelName returns the name of the generation model being used.
func (s *GenerationService) ModelName() string {
	return s.model
}

// Ping validates the API key against the /models endpoint without
// running inference.
func (s *GenerationService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("groq: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("groq: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("groq: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("groq: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *GenerationService) Close() error {
	return nil
}
