package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// LearnInput is the input schema for the learn tool.
type LearnInput struct {
	Topic string `json:"topic" jsonschema:"the learning topic to gather videos and papers for"`
}

// LearnOutput is the output schema for the learn tool.
type LearnOutput struct {
	Topic    string           `json:"topic"`
	Videos   []ResourceOutput `json:"videos"`
	Papers   []ResourceOutput `json:"papers"`
	Warnings []string         `json:"warnings,omitempty"`
}

// ResourceOutput represents a single video or paper.
type ResourceOutput struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	SourceURL   string   `json:"source_url,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	Popularity  int64    `json:"popularity"`
	Year        int      `json:"year,omitempty"`
	Provider    string   `json:"provider"`
}

// SemanticSearchInput is the input schema for the semantic_search tool.
type SemanticSearchInput struct {
	Query string `json:"query" jsonschema:"natural language query over previously gathered resources"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SemanticSearchOutput is the output schema for the semantic_search tool.
type SemanticSearchOutput struct {
	Query    string            `json:"query"`
	Results  []SearchHitOutput `json:"results"`
	Count    int               `json:"count"`
	Warnings []string          `json:"warnings,omitempty"`
}

// SearchHitOutput represents a single semantic search result.
type SearchHitOutput struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Authors  string  `json:"authors,omitempty"`
	Document string  `json:"document"`
	Distance float64 `json:"distance"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "learn",
		Description: "Find videos and research papers for a learning topic and index them for semantic search",
	}, s.handleLearn)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "semantic_search",
		Description: "Search previously gathered videos and papers by meaning",
	}, s.handleSemanticSearch)
}

// handleLearn handles the learn tool invocation.
func (s *Server) handleLearn(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LearnInput,
) (*mcp.CallToolResult, LearnOutput, error) {
	result, err := s.ports.Orchestrator.Run(ctx, input.Topic)
	if err != nil {
		return nil, LearnOutput{}, err
	}
	s.remember(input.Topic, result)

	return nil, learnOutput(result), nil
}

// handleSemanticSearch handles the semantic_search tool invocation.
func (s *Server) handleSemanticSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SemanticSearchInput,
) (*mcp.CallToolResult, SemanticSearchOutput, error) {
	resp, err := s.ports.Orchestrator.SemanticSearch(ctx, input.Query, input.K)
	if err != nil {
		return nil, SemanticSearchOutput{}, err
	}

	output := SemanticSearchOutput{
		Query:    resp.Query,
		Results:  make([]SearchHitOutput, len(resp.Results)),
		Count:    len(resp.Results),
		Warnings: resp.Diagnostics.Messages(),
	}
	for i, hit := range resp.Results {
		output.Results[i] = SearchHitOutput{
			ID:       hit.ID,
			Kind:     hit.Metadata[domain.MetaKind],
			Title:    hit.Metadata[domain.MetaTitle],
			URL:      hit.Metadata[domain.MetaURL],
			Authors:  hit.Metadata[domain.MetaAuthors],
			Document: hit.Document,
			Distance: hit.Distance,
		}
	}

	return nil, output, nil
}

func learnOutput(result domain.RunResult) LearnOutput {
	return LearnOutput{
		Topic:    result.Topic,
		Videos:   resourceOutputs(result.Videos),
		Papers:   resourceOutputs(result.Papers),
		Warnings: result.Diagnostics.Messages(),
	}
}

func resourceOutputs(resources []domain.Resource) []ResourceOutput {
	out := make([]ResourceOutput, len(resources))
	for i := range resources {
		r := &resources[i]
		out[i] = ResourceOutput{
			ID:          r.ID,
			Kind:        r.Kind.String(),
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
			SourceURL:   r.SourceURL,
			Authors:     r.Authors,
			Channel:     r.Channel,
			Popularity:  r.Popularity,
			Provider:    r.Provider,
		}
		if r.Year != nil {
			out[i].Year = *r.Year
		}
	}
	return out
}
