// Package arxiv normalises entries from the arXiv Atom feed.
package arxiv

import (
	"strings"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/normalisers/fields"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles feed-shaped paper records: authors as a list of
// strings, links as {href, rel, title, type} objects and a published
// timestamp. arXiv reports no citation counts, so popularity is 0.
type Normaliser struct{}

// New creates a new arXiv normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedProviders returns the providers this normaliser handles.
func (n *Normaliser) SupportedProviders() []string {
	return []string{"arxiv"}
}

// Kind returns the resource kind handled.
func (n *Normaliser) Kind() domain.ResourceKind {
	return domain.ResourceKindPaper
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 95
}

// Normalise converts a feed entry to a resource.
func (n *Normaliser) Normalise(raw domain.RawItem) domain.Resource {
	f := raw.Fields
	links := fields.Maps(f["links"])

	url := fields.First(f, "id")
	if url == "" {
		url = findLink(links, func(l map[string]any) bool {
			return fields.String(l["rel"]) == "alternate"
		})
	}

	source := findLink(links, func(l map[string]any) bool {
		return fields.String(l["title"]) == "pdf"
	})
	if source == "" {
		source = url
	}

	return domain.Resource{
		Kind:        domain.ResourceKindPaper,
		Title:       fields.CollapseSpace(fields.First(f, "title")),
		Description: strings.TrimSpace(fields.CollapseSpace(fields.First(f, "summary"))),
		URL:         url,
		SourceURL:   source,
		Authors:     fields.Names(f["authors"]),
		Popularity:  0,
		Year:        fields.Year(f["published"]),
		PublishedAt: fields.First(f, "published"),
		Provider:    raw.Provider,
	}
}

func findLink(links []map[string]any, match func(map[string]any) bool) string {
	for _, l := range links {
		if match(l) {
			if href := fields.String(l["href"]); href != "" {
				return href
			}
		}
	}
	return ""
}
