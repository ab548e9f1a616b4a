package mcp

import (
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Orchestrator runs topics and serves semantic search.
	Orchestrator driving.Orchestrator
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Orchestrator == nil {
		return ErrMissingOrchestrator
	}
	return nil
}
