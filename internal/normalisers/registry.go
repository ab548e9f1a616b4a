package normalisers

import (
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw items to the highest-priority matching normaliser
// and assigns each resulting resource a fresh id.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
	newID       func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDGenerator overrides the id generator (default: uuid v4).
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a normaliser. Normalisers are kept sorted by priority,
// highest first; equal priorities keep registration order.
func (r *Registry) Register(n driven.Normaliser) {
	if n == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Len returns the number of registered normalisers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.normalisers)
}

// Normalise converts raw with the best matching normaliser and assigns an id.
// It never fails: with no matching normaliser, or if one panics on a
// malformed payload, a resource carrying only defaults is returned.
func (r *Registry) Normalise(raw domain.RawItem) domain.Resource {
	res := r.normalise(raw)
	res.ID = r.newID()
	return finalise(res, raw)
}

// NormaliseBatch normalises every item in order.
func (r *Registry) NormaliseBatch(raws []domain.RawItem) []domain.Resource {
	out := make([]domain.Resource, 0, len(raws))
	for _, raw := range raws {
		out = append(out, r.Normalise(raw))
	}
	return out
}

func (r *Registry) normalise(raw domain.RawItem) (res domain.Resource) {
	n := r.find(raw)
	if n == nil {
		logger.Debug("No normaliser for provider %q, using defaults", raw.Provider)
		return domain.Resource{}
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("Normaliser for %s panicked on malformed record: %v", raw.Provider, rec)
			res = domain.Resource{}
		}
	}()
	return n.Normalise(raw)
}

func (r *Registry) find(raw domain.RawItem) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.normalisers {
		if providers := n.SupportedProviders(); len(providers) > 0 && !slices.Contains(providers, raw.Provider) {
			continue
		}
		if kind := n.Kind(); kind != "" && raw.Kind != "" && kind != raw.Kind {
			continue
		}
		return n
	}
	return nil
}

// finalise enforces the resource invariants regardless of normaliser.
func finalise(res domain.Resource, raw domain.RawItem) domain.Resource {
	if !res.Kind.IsValid() {
		res.Kind = raw.Kind
		if !res.Kind.IsValid() {
			res.Kind = domain.ResourceKindPaper
		}
	}
	if res.Authors == nil {
		res.Authors = []string{}
	}
	if res.Popularity < 0 {
		res.Popularity = 0
	}
	if res.LikeCount < 0 {
		res.LikeCount = 0
	}
	if res.SourceURL == "" {
		res.SourceURL = res.URL
	}
	if res.Provider == "" {
		res.Provider = raw.Provider
	}
	return res
}
