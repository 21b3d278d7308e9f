package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/services"
)

// AskInput is the input for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"The question to answer from the local document index"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"Number of chunks to retrieve (default 5)"`
}

// AskOutput is the output for the ask tool.
type AskOutput struct {
	Answer        string             `json:"answer" jsonschema:"The generated answer"`
	Confidence    int                `json:"confidence" jsonschema:"Self-reported confidence in [0, 100]"`
	Source        string             `json:"source" jsonschema:"Answer provenance: learned, local_db, or none"`
	Sources       []domain.SourceRef `json:"sources,omitempty" jsonschema:"Chunks that contributed context"`
	OfferInternet bool               `json:"offer_internet" jsonschema:"True when confidence is low and the ask_open tool may do better"`
}

// AskOpenInput is the input for the ask_open tool.
type AskOpenInput struct {
	Question string `json:"question" jsonschema:"The question to answer from open knowledge"`
	Save     bool   `json:"save,omitempty" jsonschema:"Save the answer for future reuse when confidence is high"`
}

// AskOpenOutput is the output for the ask_open tool.
type AskOpenOutput struct {
	Answer     string `json:"answer" jsonschema:"The generated answer"`
	Confidence int    `json:"confidence" jsonschema:"Self-reported confidence in [0, 100]"`
	Saved      bool   `json:"saved" jsonschema:"True when the answer was saved to the learned cache"`
}

// IngestInput is the input for the ingest tool.
type IngestInput struct {
	SourceFile string `json:"source_file" jsonschema:"Identifier for the document, e.g. a file name"`
	Text       string `json:"text" jsonschema:"Document text to index"`
}

// IngestOutput is the output for the ingest tool.
type IngestOutput struct {
	SourceFile string `json:"source_file" jsonschema:"The document identifier"`
	Chunks     int    `json:"chunks" jsonschema:"Number of chunks indexed"`
}

// registerTools registers all tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ask",
		Description: "Answer a question from the locally indexed documents. " +
			"Returns the answer with a confidence estimate and the chunks it drew on.",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ask_open",
		Description: "Answer a question from the model's open knowledge, without document context. " +
			"Use when ask reports low confidence.",
	}, s.handleAskOpen)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Index a document's text so future ask calls can retrieve it.",
		}, s.handleIngest)
	}
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	topK := input.TopK
	if topK == 0 {
		topK = services.DefaultTopK
	}

	result, err := s.ports.Query.Ask(ctx, input.Question, topK)
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("ask: %w", err)
	}

	return nil, AskOutput{
		Answer:        result.Answer,
		Confidence:    result.Confidence,
		Source:        result.Source.String(),
		Sources:       result.Sources,
		OfferInternet: result.OfferInternet,
	}, nil
}

func (s *Server) handleAskOpen(ctx context.Context, _ *mcp.CallToolRequest, input AskOpenInput) (*mcp.CallToolResult, AskOpenOutput, error) {
	result, err := s.ports.Query.AskOpenKnowledge(ctx, input.Question, input.Save)
	if err != nil {
		return nil, AskOpenOutput{}, fmt.Errorf("ask_open: %w", err)
	}

	return nil, AskOpenOutput{
		Answer:     result.Answer,
		Confidence: result.Confidence,
		Saved:      result.SavedToDB,
	}, nil
}

func (s *Server) handleIngest(ctx context.Context, _ *mcp.CallToolRequest, input IngestInput) (*mcp.CallToolResult, IngestOutput, error) {
	result, err := s.ports.Ingest.IngestText(ctx, input.SourceFile, input.Text)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("ingest: %w", err)
	}

	return nil, IngestOutput{
		SourceFile: result.SourceFile,
		Chunks:     result.Chunks,
	}, nil
}
