package normalisers

import (
	"github.com/custodia-labs/sercha-learn/internal/normalisers/arxiv"
	"github.com/custodia-labs/sercha-learn/internal/normalisers/generic"
	"github.com/custodia-labs/sercha-learn/internal/normalisers/paper"
	"github.com/custodia-labs/sercha-learn/internal/normalisers/video"
)

// RegisterDefaults registers all built-in normalisers with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(video.New())
	r.Register(paper.New())
	r.Register(arxiv.New())
	r.Register(generic.New())
}

// NewDefaultRegistry creates a registry with the built-in normalisers.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	RegisterDefaults(r)
	return r
}
