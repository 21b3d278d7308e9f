package mcp

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

type mockQueryService struct {
	queryResult *domain.QueryResult
	openResult  *domain.OpenResult
	learned     []domain.LearnedAnswer
	forgot      bool
	stats       *driving.Stats
	err         error

	lastQuestion string
	lastTopK     int
	lastSave     bool
}

var _ driving.QueryService = (*mockQueryService)(nil)

func (m *mockQueryService) Ask(_ context.Context, question string, topK int) (*domain.QueryResult, error) {
	m.lastQuestion = question
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.queryResult, nil
}

func (m *mockQueryService) AskOpenKnowledge(_ context.Context, question string, saveIfConfident bool) (*domain.OpenResult, error) {
	m.lastQuestion = question
	m.lastSave = saveIfConfident
	if m.err != nil {
		return nil, m.err
	}
	return m.openResult, nil
}

func (m *mockQueryService) ListLearned(_ context.Context, _ int) ([]domain.LearnedAnswer, error) {
	return m.learned, m.err
}

func (m *mockQueryService) Forget(_ context.Context, _ string) (bool, error) {
	return m.forgot, m.err
}

func (m *mockQueryService) Stats(_ context.Context) (*driving.Stats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

type mockIngestService struct {
	result  *driving.IngestResult
	removed int
	err     error

	lastSource string
	lastText   string
}

var _ driving.IngestService = (*mockIngestService)(nil)

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*driving.IngestResult, error) {
	m.lastSource = path
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockIngestService) IngestText(_ context.Context, sourceFile, text string) (*driving.IngestResult, error) {
	m.lastSource = sourceFile
	m.lastText = text
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockIngestService) RemoveFile(_ context.Context, _ string) (int, error) {
	return m.removed, m.err
}
