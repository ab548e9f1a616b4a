package youtube

import "time"

// ProviderName is the name reported by the connector.
const ProviderName = "youtube"

// Defaults for search parameters.
const (
	DefaultTimeout           = 20 * time.Second
	DefaultOrder             = "viewCount"
	DefaultVideoDuration     = "medium"
	DefaultRelevanceLanguage = "en"

	// MaxResultsPerPage is the API's upper bound for search.list maxResults.
	MaxResultsPerPage = 50
)

// Config holds YouTube connector configuration.
type Config struct {
	// APIKey is the YouTube Data API key.
	APIKey string

	// Endpoint overrides the API base URL (used in tests).
	Endpoint string

	// Timeout bounds each API call.
	Timeout time.Duration

	// Order is the search ordering (date, rating, relevance, title, viewCount).
	Order string

	// VideoDuration filters search results (any, long, medium, short).
	VideoDuration string

	// RelevanceLanguage biases results towards a language.
	RelevanceLanguage string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:           DefaultTimeout,
		Order:             DefaultOrder,
		VideoDuration:     DefaultVideoDuration,
		RelevanceLanguage: DefaultRelevanceLanguage,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Order == "" {
		c.Order = d.Order
	}
	if c.VideoDuration == "" {
		c.VideoDuration = d.VideoDuration
	}
	if c.RelevanceLanguage == "" {
		c.RelevanceLanguage = d.RelevanceLanguage
	}
	return c
}
