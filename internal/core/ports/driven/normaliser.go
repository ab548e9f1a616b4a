package driven

import (
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// Normaliser maps provider-native records into canonical resources.
// Each normaliser handles specific providers or resource kinds.
//
// Normalise is total: missing or malformed fields are replaced by safe
// defaults and never abort the item.
type Normaliser interface {
	// SupportedProviders returns provider names for specialised handling.
	// Empty slice means all providers.
	SupportedProviders() []string

	// Kind returns the resource kind handled. Empty means any kind.
	Kind() domain.ResourceKind

	// Priority returns the selection priority (higher = preferred).
	// Provider-specific normalisers should return 90-100.
	// Kind normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise converts a raw item. The returned resource has no ID;
	// the registry assigns one.
	Normalise(raw domain.RawItem) domain.Resource
}
