package domain

// RawItem is an untyped provider-native record as returned by a provider.
// It is the provider's output before normalisation and is discarded afterwards.
type RawItem struct {
	// Provider is the name of the provider that produced the record
	// (e.g., "youtube", "semanticscholar", "arxiv").
	Provider string

	// Kind is the kind of resource the record describes.
	Kind ResourceKind

	// Fields holds the provider payload. Values are whatever the provider
	// decoded: strings, float64 or json.Number, nested maps and slices.
	Fields map[string]any
}

// Field returns the value stored under key, or nil when absent.
func (r RawItem) Field(key string) any {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[key]
}
