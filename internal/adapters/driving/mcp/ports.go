package mcp

import (
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point.
type Ports struct {
	// Query answers questions and manages learned answers.
	Query driving.QueryService

	// Ingest indexes documents. Optional; the ingest tool is
	// unavailable without it.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
