// Package video normalises YouTube Data API video records.
package video

import (
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/normalisers/fields"
)

// WatchURL is the canonical page prefix for a video id.
const WatchURL = "https://www.youtube.com/watch?v="

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles records shaped like youtube#video resources
// (id, snippet, statistics, contentDetails). Flat records carrying the
// same keys at the top level are accepted too.
type Normaliser struct{}

// New creates a new video normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedProviders returns the providers this normaliser handles.
func (n *Normaliser) SupportedProviders() []string {
	return []string{"youtube"}
}

// Kind returns the resource kind handled.
func (n *Normaliser) Kind() domain.ResourceKind {
	return domain.ResourceKindVideo
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 95
}

// Normalise converts a video record to a resource.
func (n *Normaliser) Normalise(raw domain.RawItem) domain.Resource {
	f := raw.Fields

	url := fields.First(f, "url")
	if url == "" {
		if id := videoID(f); id != "" {
			url = WatchURL + id
		}
	}

	publishedAt := fields.First(f, "snippet.publishedAt", "publishedAt")

	return domain.Resource{
		Kind:        domain.ResourceKindVideo,
		Title:       fields.First(f, "snippet.title", "title"),
		Description: fields.First(f, "snippet.description", "description"),
		URL:         url,
		SourceURL:   url,
		Authors:     []string{},
		Channel:     fields.First(f, "snippet.channelTitle", "channelTitle", "channel"),
		Popularity:  fields.Count(fields.FirstValue(f, "statistics.viewCount", "viewCount")),
		LikeCount:   fields.Count(fields.FirstValue(f, "statistics.likeCount", "likeCount")),
		Duration:    fields.First(f, "contentDetails.duration", "duration"),
		PublishedAt: publishedAt,
		Year:        fields.Year(publishedAt),
		Provider:    raw.Provider,
	}
}

// videoID reads the id, which search results nest under id.videoId.
func videoID(f map[string]any) string {
	if id := fields.First(f, "id.videoId"); id != "" {
		return id
	}
	return fields.String(f["id"])
}
