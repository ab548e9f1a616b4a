package postprocessors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

// Deps holds the services processors may depend on.
// Any field may be nil; builders that need a missing service fail.
type Deps struct {
	Extractor driven.TextExtractor
	LLM       driven.LLMService
}

// BuilderFunc creates a PostProcessor from generic config.
// Config is a map of processor-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any, deps Deps) (driven.PostProcessor, error)

// Step names one processor of a pipeline and its config.
type Step struct {
	Name   string
	Config map[string]any
}

// Registry maps processor names to their builders.
// It allows dynamic construction of processors from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new processor registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a processor builder to the registry.
// Name should be unique and match the processor's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a processor by name with the given config.
// Returns error if the processor name is not registered.
func (r *Registry) Build(name string, cfg map[string]any, deps Deps) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: processor %s", domain.ErrUnsupportedType, name)
	}
	return builder(cfg, deps)
}

// BuildPipeline builds every step in order.
func (r *Registry) BuildPipeline(steps []Step, deps Deps) (*Pipeline, error) {
	p := NewPipeline()
	for _, s := range steps {
		proc, err := r.Build(s.Name, s.Config, deps)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", s.Name, err)
		}
		p.Add(proc)
	}
	return p, nil
}

// Has returns true if a processor with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered processor names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
