// Package ollama provides a generation service adapter for a local
// Ollama instance.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/llm/protocol"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
	"github.com/custodia-labs/recall-cli/internal/retry"
)

// Ensure GenerationService implements the interface.
var _ driven.GenerationService = (*GenerationService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama generation service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the chat model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Retry overrides the resource-exhaustion retry policy. Zero value
	// uses the default bounded linear backoff.
	Retry retry.Policy
}

// GenerationService produces confidence-scored answers via Ollama.
//
// A loaded model can transiently fail with a GPU out-of-memory error
// while another model is being evicted; those requests are retried with
// linear backoff. An unreachable host is terminal and not retried.
type GenerationService struct {
	client  *http.Client
	baseURL string
	model   string
	retry   retry.Policy
}

type generateRequest struct {
	Model   string   `json:"model"`
	System  string   `json:"system,omitempty"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

type options struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewGenerationService creates a new Ollama generation service.
func NewGenerationService(cfg Config) *GenerationService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry.Attempts == 0 {
		cfg.Retry = retry.DefaultPolicy(func(err error) bool {
			return errors.Is(err, domain.ErrResourceExhausted)
		})
	}

	return &GenerationService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		retry:   cfg.Retry,
	}
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
	var answer domain.Answer

	err := s.retry.Do(ctx, func() error {
		var err error
		answer, err = s.completeOnce(ctx, system, user)
		if errors.Is(err, domain.ErrResourceExhausted) {
			logger.Warn("ollama model resources exhausted, retrying: %v", err)
		}
		return err
	})
	return answer, err
}

func (s *GenerationService) completeOnce(ctx context.Context, system, user string) (domain.Answer, error) {
	jsonBody, err := json.Marshal(generateRequest{
		Model:   s.model,
		System:  system,
		Prompt:  user,
		Stream:  false,
		Options: &options{Temperature: 0.2},
	})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// Connection refused or timeout: the host is down, not busy.
		return domain.Answer{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return domain.Answer{}, fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		if resp.StatusCode >= http.StatusInternalServerError && isResourceError(string(body)) {
			return domain.Answer{}, fmt.Errorf("%w: %s", domain.ErrResourceExhausted, string(body))
		}
		return domain.Answer{}, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return domain.Answer{}, fmt.Errorf("decode response: %w", err)
	}

	return protocol.Parse(genResp.Response), nil
}

// isResourceError recognises GPU or memory pressure in an Ollama 5xx
// body. These clear once the host evicts a model, so they are worth
// retrying.
func isResourceError(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "cuda") ||
		strings.Contains(lower, "out of memory") ||
		strings.Contains(lower, "memory")
}

// ModelName returns the name of the generation model being used.
func (s *GenerationService) ModelName() string {
	return s.model
}

// Ping validates connectivity against the /api/tags endpoint without
// running inference.
func (s *GenerationService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ollama: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *GenerationService) Close() error {
	return nil
}
