package domain

import "strings"

// ResourceKind identifies the type of a learning resource.
type ResourceKind string

// Available resource kinds.
const (
	// ResourceKindVideo is a video from a video catalog.
	ResourceKindVideo ResourceKind = "video"

	// ResourceKindPaper is a research paper from a paper catalog.
	ResourceKindPaper ResourceKind = "paper"
)

// IsValid returns true if the kind is recognised.
func (k ResourceKind) IsValid() bool {
	switch k {
	case ResourceKindVideo, ResourceKindPaper:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ResourceKind) String() string {
	return string(k)
}

// Resource is the canonical unit produced by normalisation.
// Title and URL are always present, possibly empty. Authors is never nil.
type Resource struct {
	// ID is unique within one orchestration run.
	ID string `json:"id"`

	// Kind is video or paper.
	Kind ResourceKind `json:"kind"`

	// Title is the resource title.
	Title string `json:"title"`

	// Description is the video description or paper abstract.
	Description string `json:"description"`

	// URL is the canonical page for the resource.
	URL string `json:"url"`

	// SourceURL is the playable or downloadable link.
	// Falls back to URL when the provider does not supply one.
	SourceURL string `json:"source_url"`

	// Authors lists paper authors. Empty for videos.
	Authors []string `json:"authors"`

	// Channel is the publishing channel for videos.
	Channel string `json:"channel,omitempty"`

	// Popularity is the view count (videos) or citation count (papers). Never negative.
	Popularity int64 `json:"popularity"`

	// Year is the publication year when known.
	Year *int `json:"year,omitempty"`

	// Provider names the provider that returned the resource.
	Provider string `json:"provider"`

	// LikeCount is the like count for videos.
	LikeCount int64 `json:"like_count,omitempty"`

	// Duration is the ISO-8601 duration for videos (e.g., "PT12M3S").
	Duration string `json:"duration,omitempty"`

	// PublishedAt is the provider's publication timestamp, unparsed.
	PublishedAt string `json:"published_at,omitempty"`
}

// AuthorsOrChannel returns the channel for videos and the comma-joined
// author list for papers.
func (r Resource) AuthorsOrChannel() string {
	if r.Kind == ResourceKindVideo {
		return r.Channel
	}
	return strings.Join(r.Authors, ", ")
}

// DocumentText builds the text that is embedded for this resource:
// title, description and extra joined by single spaces, skipping empty parts.
func (r Resource) DocumentText(extra string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Title, r.Description, extra} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
