// Package demo provides an offline provider that returns placeholder
// resources for any topic. It is only wired in when demo mode is enabled,
// as the last strategy of each pipeline.
package demo

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

// ProviderName is the name reported by the connector.
const ProviderName = "demo"

// Ensure Connector implements the interface.
var _ driven.Provider = (*Connector)(nil)

// Connector returns fixed placeholder records of one kind.
type Connector struct {
	kind domain.ResourceKind
}

// New creates a demo connector producing records of kind.
func New(kind domain.ResourceKind) *Connector {
	return &Connector{kind: kind}
}

// Name returns the provider name.
func (c *Connector) Name() string {
	return ProviderName
}

// Kind returns the resource kind produced.
func (c *Connector) Kind() domain.ResourceKind {
	return c.kind
}

// Fetch returns up to limit placeholder records mentioning query.
func (c *Connector) Fetch(ctx context.Context, query string, limit int) ([]domain.RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []map[string]any
	switch c.kind {
	case domain.ResourceKindVideo:
		records = videos(query)
	case domain.ResourceKindPaper:
		records = papers(query)
	default:
		return nil, fmt.Errorf("%w: demo kind %q", domain.ErrUnsupportedType, c.kind)
	}

	if limit < len(records) {
		records = records[:max(limit, 0)]
	}

	items := make([]domain.RawItem, 0, len(records))
	for _, r := range records {
		items = append(items, domain.RawItem{Provider: ProviderName, Kind: c.kind, Fields: r})
	}
	return items, nil
}

func videos(topic string) []map[string]any {
	return []map[string]any{
		{
			"title":       topic + " - Introduction and Overview",
			"url":         "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			"description": fmt.Sprintf("A comprehensive introduction to %s covering fundamental concepts and practical applications.", topic),
			"channel":     "Educational Channel",
			"publishedAt": "2024-01-01T00:00:00Z",
		},
		{
			"title":       fmt.Sprintf("Advanced %s Techniques", topic),
			"url":         "https://www.youtube.com/watch?v=jNQXAC9IVRw",
			"description": fmt.Sprintf("Deep dive into advanced %s methodologies and best practices.", topic),
			"channel":     "Tech Academy",
			"publishedAt": "2024-01-02T00:00:00Z",
		},
	}
}

func papers(topic string) []map[string]any {
	return []map[string]any{
		{
			"title":   "A Comprehensive Survey of " + topic,
			"url":     "https://arxiv.org/abs/1706.03762",
			"pdf_url": "https://arxiv.org/pdf/1706.03762.pdf",
			"summary": fmt.Sprintf("This paper provides a comprehensive overview of %s, covering theoretical foundations and practical implementations.", topic),
			"authors": []string{"Research Team", "Academic Institution"},
		},
		{
			"title":   "Recent Advances in " + topic,
			"url":     "https://arxiv.org/abs/1512.03385",
			"pdf_url": "https://arxiv.org/pdf/1512.03385.pdf",
			"summary": fmt.Sprintf("An analysis of recent developments and breakthrough techniques in %s research.", topic),
			"authors": []string{"Leading Researcher", "University Lab"},
		},
	}
}
