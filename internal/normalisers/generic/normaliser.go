// Package generic provides the fallback normaliser for providers without a
// specialised one. It reads the commonly used key names and defaults
// everything else.
package generic

import (
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/normalisers/fields"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser is the lowest-priority normaliser. It handles any provider and kind.
type Normaliser struct{}

// New creates a new generic normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedProviders returns nil (all providers).
func (n *Normaliser) SupportedProviders() []string {
	return nil
}

// Kind returns "" (any kind).
func (n *Normaliser) Kind() domain.ResourceKind {
	return ""
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise converts any record to a resource.
func (n *Normaliser) Normalise(raw domain.RawItem) domain.Resource {
	f := raw.Fields

	kind := raw.Kind
	if !kind.IsValid() {
		kind = domain.ResourceKindPaper
	}

	url := fields.First(f, "url", "link", "webpage_url")
	source := fields.First(f, "source_url", "pdf_url", "pdf", "openAccessPdf.url")
	if source == "" {
		source = url
	}

	return domain.Resource{
		Kind:        kind,
		Title:       fields.CollapseSpace(fields.First(f, "title", "name")),
		Description: fields.First(f, "description", "abstract", "summary"),
		URL:         url,
		SourceURL:   source,
		Authors:     fields.Names(fields.FirstValue(f, "authors", "author")),
		Channel:     fields.First(f, "channel", "channelTitle", "uploader"),
		Popularity:  fields.Count(fields.FirstValue(f, "popularity", "viewCount", "views", "citationCount", "citations")),
		Year:        fields.Year(fields.FirstValue(f, "year", "published", "publishedAt")),
		PublishedAt: fields.First(f, "publishedAt", "published"),
		Provider:    raw.Provider,
	}
}
