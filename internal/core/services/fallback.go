package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
	"github.com/custodia-labs/sercha-learn/internal/metrics"
)

// QueryFunc derives the provider query from the topic.
type QueryFunc func(topic string) string

// Verbatim passes the topic through unchanged.
func Verbatim(topic string) string {
	return topic
}

// BroadenVideoQuery widens a video search towards teaching material.
func BroadenVideoQuery(topic string) string {
	return fmt.Sprintf("%[1]s tutorial OR %[1]s explained OR %[1]s course OR %[1]s lecture", topic)
}

// BroadenPaperQuery widens a paper search towards overview literature.
func BroadenPaperQuery(topic string) string {
	return fmt.Sprintf("%[1]s research OR %[1]s survey OR %[1]s review", topic)
}

// Strategy is one (query transform, provider) pairing of a fallback cascade.
type Strategy struct {
	// Name identifies the strategy in reports and logs.
	Name string

	// Provider answers the query.
	Provider driven.Provider

	// Query transforms the topic. Nil means verbatim.
	Query QueryFunc
}

// VideoStrategies builds the video cascade: the primary provider with the
// verbatim topic, then with the broadened topic, then each secondary
// provider verbatim. Nil providers are skipped.
func VideoStrategies(primary driven.Provider, secondary ...driven.Provider) []Strategy {
	return cascade(primary, BroadenVideoQuery, secondary)
}

// PaperStrategies builds the paper cascade in the same shape as VideoStrategies.
func PaperStrategies(primary driven.Provider, secondary ...driven.Provider) []Strategy {
	return cascade(primary, BroadenPaperQuery, secondary)
}

func cascade(primary driven.Provider, broaden QueryFunc, secondary []driven.Provider) []Strategy {
	var strategies []Strategy
	if primary != nil {
		strategies = append(strategies,
			Strategy{Name: primary.Name(), Provider: primary, Query: Verbatim},
			Strategy{Name: primary.Name() + "-broadened", Provider: primary, Query: broaden},
		)
	}
	for _, p := range secondary {
		if p == nil {
			continue
		}
		strategies = append(strategies, Strategy{Name: p.Name(), Provider: p, Query: Verbatim})
	}
	return strategies
}

// FetchPolicy controls how a pipeline shapes provider results.
type FetchPolicy struct {
	// OverFetch multiplies the requested limit sent to providers (minimum 1).
	OverFetch int

	// SortByPopularity applies a stable sort by popularity, highest first,
	// before truncating to the limit.
	SortByPopularity bool
}

// VideoPolicy over-fetches twice the limit and keeps the most popular videos.
var VideoPolicy = FetchPolicy{OverFetch: 2, SortByPopularity: true}

// PaperPolicy trusts provider ordering.
var PaperPolicy = FetchPolicy{OverFetch: 1}

// FallbackFetcher drives a pipeline through its strategies in strict
// sequence and stops at the first non-empty result. It never fails:
// provider errors are logged, counted and recorded in the report.
type FallbackFetcher struct {
	pipeline   domain.Pipeline
	strategies []Strategy
	normaliser driven.NormaliserRegistry
	policy     FetchPolicy
}

// NewFallbackFetcher creates a fetcher for one pipeline.
func NewFallbackFetcher(
	pipeline domain.Pipeline,
	normaliser driven.NormaliserRegistry,
	policy FetchPolicy,
	strategies ...Strategy,
) *FallbackFetcher {
	if policy.OverFetch < 1 {
		policy.OverFetch = 1
	}
	return &FallbackFetcher{
		pipeline:   pipeline,
		strategies: strategies,
		normaliser: normaliser,
		policy:     policy,
	}
}

// Pipeline returns the pipeline this fetcher serves.
func (f *FallbackFetcher) Pipeline() domain.Pipeline {
	return f.pipeline
}

// Strategies returns the strategy names in cascade order.
func (f *FallbackFetcher) Strategies() []string {
	names := make([]string, len(f.strategies))
	for i, s := range f.strategies {
		names[i] = s.Name
	}
	return names
}

// Fetch returns at most limit resources for topic together with a report
// of every attempt made. The returned slice is never nil.
func (f *FallbackFetcher) Fetch(ctx context.Context, topic string, limit int) ([]domain.Resource, domain.FetchReport) {
	report := domain.FetchReport{Pipeline: f.pipeline, Attempts: []domain.Attempt{}}
	if limit <= 0 {
		return []domain.Resource{}, report
	}

	logger.Section(fmt.Sprintf("Fetch %s", f.pipeline))

	for _, s := range f.strategies {
		query := topic
		if s.Query != nil {
			query = s.Query(topic)
		}

		raws, err := f.attempt(ctx, s, query, limit*f.policy.OverFetch)
		attempt := domain.Attempt{Strategy: s.Name, Query: query, Count: len(raws)}
		if err != nil {
			attempt.Error = err.Error()
			report.Attempts = append(report.Attempts, attempt)
			logger.Warn("%s strategy %s failed: %v", f.pipeline, s.Name, err)
			continue
		}
		report.Attempts = append(report.Attempts, attempt)

		if len(raws) == 0 {
			logger.Debug("%s strategy %s returned nothing for %q", f.pipeline, s.Name, query)
			continue
		}

		resources := f.shape(f.normaliser.NormaliseBatch(raws), limit)
		report.Strategy = s.Name
		logger.Info("%s strategy %s found %d results", f.pipeline, s.Name, len(resources))
		return resources, report
	}

	metrics.FallbackExhaustedTotal.WithLabelValues(string(f.pipeline)).Inc()
	logger.Info("No %s results for %q after %d strategies", f.pipeline, topic, len(f.strategies))
	return []domain.Resource{}, report
}

// attempt calls one provider and records its outcome in metrics.
func (f *FallbackFetcher) attempt(ctx context.Context, s Strategy, query string, limit int) ([]domain.RawItem, error) {
	start := time.Now()
	raws, err := s.Provider.Fetch(ctx, query, limit)
	metrics.ProviderRequestDuration.WithLabelValues(s.Provider.Name()).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.ProviderRequestsTotal.WithLabelValues(s.Provider.Name(), metrics.ResultError).Inc()
		return nil, err
	case len(raws) == 0:
		metrics.ProviderRequestsTotal.WithLabelValues(s.Provider.Name(), metrics.ResultEmpty).Inc()
	default:
		metrics.ProviderRequestsTotal.WithLabelValues(s.Provider.Name(), metrics.ResultOK).Inc()
	}
	return raws, nil
}

// shape applies the pipeline policy and truncates to limit.
func (f *FallbackFetcher) shape(resources []domain.Resource, limit int) []domain.Resource {
	if f.policy.SortByPopularity {
		sort.SliceStable(resources, func(i, j int) bool {
			return resources[i].Popularity > resources[j].Popularity
		})
	}
	if len(resources) > limit {
		resources = resources[:limit]
	}
	return resources
}
