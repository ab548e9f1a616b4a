// Package ranking implements the cosine distance and ordering shared by the
// vector store backends.
package ranking

import (
	"maps"
	"math"
	"sort"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// CosineDistance returns 1 - cos(a, b). Vectors must have equal length.
// A zero vector is at distance 1 from everything.
func CosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// Scored is a record with its distance to a query.
type Scored struct {
	Record   domain.EmbeddingRecord
	Distance float64
}

// TopK orders candidates by increasing distance, breaking ties by insertion
// sequence, and returns the first k as hits. k larger than the candidate
// count returns every candidate. Hit metadata is a copy the caller may modify.
func TopK(candidates []Scored, k int) []domain.SearchHit {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Record.Seq < candidates[j].Record.Seq
	})

	if k < len(candidates) {
		candidates = candidates[:max(k, 0)]
	}

	hits := make([]domain.SearchHit, len(candidates))
	for i, c := range candidates {
		hits[i] = domain.SearchHit{
			ID:       c.Record.ID,
			Document: c.Record.Document,
			Metadata: maps.Clone(c.Record.Metadata),
			Distance: c.Distance,
		}
	}
	return hits
}
