package tui

import (
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the TUI needs.
type Ports struct {
	// Query answers questions and manages learned answers.
	Query driving.QueryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
