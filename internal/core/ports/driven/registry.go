package driven

import (
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a raw item.
// It maintains a priority-ordered list of normalisers and dispatches
// based on provider name and resource kind.
type NormaliserRegistry interface {
	// Normalise transforms a raw item using the best matching normaliser
	// and assigns it a fresh id.
	// Selection priority: provider-specific > kind-specific > fallback.
	Normalise(raw domain.RawItem) domain.Resource

	// NormaliseBatch normalises every item. Ids are pairwise distinct.
	NormaliseBatch(raws []domain.RawItem) []domain.Resource

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)
}
