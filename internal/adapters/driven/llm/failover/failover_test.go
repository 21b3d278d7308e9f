package failover

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// stubGenerator implements driven.GenerationService for tests.
type stubGenerator struct {
	name   string
	answer domain.Answer
	err    error
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, contextText, question string, qtype domain.QuestionType, guidance string) (domain.Answer, error) {
	s.calls++
	return s.answer, s.err
}

func (s *stubGenerator) GenerateOpen(ctx context.Context, question string) (domain.Answer, error) {
	s.calls++
	return s.answer, s.err
}

func (s *stubGenerator) ModelName() string              { return s.name }
func (s *stubGenerator) Ping(ctx context.Context) error { return s.err }
func (s *stubGenerator) Close() error                   { return nil }

func generate(t *testing.T, svc *Service) (domain.Answer, error) {
	t.Helper()
	return svc.Generate(context.Background(), "ctx", "q", domain.QuestionOther, "")
}

func TestGenerateUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &stubGenerator{name: "cloud", answer: domain.Answer{Text: "from cloud", Confidence: 80}}
	fallback := &stubGenerator{name: "local", answer: domain.Answer{Text: "from local", Confidence: 70}}
	svc := NewService(primary, fallback)

	answer, err := generate(t, svc)

	require.NoError(t, err)
	assert.Equal(t, "from cloud", answer.Text)
	assert.Equal(t, 0, fallback.calls)
}

func TestGenerateFallsBackOnRateLimit(t *testing.T) {
	primary := &stubGenerator{name: "cloud", err: fmt.Errorf("%w: 429", domain.ErrRateLimited)}
	fallback := &stubGenerator{name: "local", answer: domain.Answer{Text: "from local", Confidence: 70}}
	svc := NewService(primary, fallback)

	answer, err := generate(t, svc)

	require.NoError(t, err)
	assert.Equal(t, "from local", answer.Text)
	assert.Equal(t, 70, answer.Confidence)
}

func TestGenerateTerminalErrorDegradesToZeroConfidence(t *testing.T) {
	primary := &stubGenerator{name: "cloud", err: fmt.Errorf("%w: connection refused", domain.ErrProviderUnavailable)}
	fallback := &stubGenerator{name: "local", answer: domain.Answer{Text: "unused", Confidence: 70}}
	svc := NewService(primary, fallback)

	answer, err := generate(t, svc)

	require.NoError(t, err)
	assert.Equal(t, 0, answer.Confidence)
	assert.Contains(t, answer.Text, "Unable to generate")
	// Not a rate limit: the fallback is not consulted.
	assert.Equal(t, 0, fallback.calls)
}

func TestGenerateBothBackendsFailing(t *testing.T) {
	primary := &stubGenerator{name: "cloud", err: fmt.Errorf("%w: 429", domain.ErrRateLimited)}
	fallback := &stubGenerator{name: "local", err: errors.New("ollama down")}
	svc := NewService(primary, fallback)

	answer, err := generate(t, svc)

	require.NoError(t, err)
	assert.Equal(t, 0, answer.Confidence)
	assert.Equal(t, 1, fallback.calls)
}

func TestGenerateCancelledContextIsAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &stubGenerator{name: "cloud", err: ctx.Err()}
	fallback := &stubGenerator{name: "local"}
	svc := NewService(primary, fallback)

	_, err := svc.Generate(ctx, "ctx", "q", domain.QuestionOther, "")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, fallback.calls)
}

func TestGenerateOpenFallsBackOnRateLimit(t *testing.T) {
	primary := &stubGenerator{name: "cloud", err: fmt.Errorf("%w: 429", domain.ErrRateLimited)}
	fallback := &stubGenerator{name: "local", answer: domain.Answer{Text: "local fact", Confidence: 95}}
	svc := NewService(primary, fallback)

	answer, err := svc.GenerateOpen(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, "local fact", answer.Text)
}

func TestPingSucceedsWhenEitherIsUp(t *testing.T) {
	primary := &stubGenerator{name: "cloud", err: errors.New("down")}
	fallback := &stubGenerator{name: "local"}
	svc := NewService(primary, fallback)

	assert.NoError(t, svc.Ping(context.Background()))
}
