// Package mcp provides an MCP (Model Context Protocol) server adapter for Sercha Learn.
// It lets AI assistants gather learning resources for a topic and search
// everything indexed so far.
package mcp

import "errors"

// ErrMissingOrchestrator is returned when the orchestrator is not provided.
var ErrMissingOrchestrator = errors.New("mcp: orchestrator is required")
