// Package paper normalises Semantic Scholar Graph API paper records.
package paper

import (
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/normalisers/fields"
)

// PaperURL is the canonical page prefix for a Semantic Scholar paper id.
const PaperURL = "https://www.semanticscholar.org/paper/"

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles JSON-shaped paper records: authors as a list of
// {name} objects and the open access PDF nested under openAccessPdf.url.
type Normaliser struct{}

// New creates a new paper normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedProviders returns the providers this normaliser handles.
func (n *Normaliser) SupportedProviders() []string {
	return []string{"semanticscholar"}
}

// Kind returns the resource kind handled.
func (n *Normaliser) Kind() domain.ResourceKind {
	return domain.ResourceKindPaper
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 95
}

// Normalise converts a paper record to a resource.
func (n *Normaliser) Normalise(raw domain.RawItem) domain.Resource {
	f := raw.Fields

	url := fields.First(f, "url")
	if url == "" {
		if id := fields.First(f, "paperId"); id != "" {
			url = PaperURL + id
		}
	}

	source := fields.First(f, "openAccessPdf.url")
	if source == "" {
		source = url
	}

	return domain.Resource{
		Kind:        domain.ResourceKindPaper,
		Title:       fields.CollapseSpace(fields.First(f, "title")),
		Description: fields.First(f, "abstract"),
		URL:         url,
		SourceURL:   source,
		Authors:     fields.Names(f["authors"]),
		Popularity:  fields.Count(f["citationCount"]),
		Year:        fields.Year(f["year"]),
		Provider:    raw.Provider,
	}
}
