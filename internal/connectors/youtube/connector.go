package youtube

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Provider = (*Connector)(nil)

// Connector is the video provider. It searches for ids and then fetches
// details, so one Fetch costs two API calls.
type Connector struct {
	catalog driven.VideoCatalog
}

// New creates a connector over the given catalog.
func New(catalog driven.VideoCatalog) *Connector {
	return &Connector{catalog: catalog}
}

// Name returns the provider name.
func (c *Connector) Name() string {
	return ProviderName
}

// Kind returns the resource kind produced.
func (c *Connector) Kind() domain.ResourceKind {
	return domain.ResourceKindVideo
}

// Fetch returns up to limit video records for query.
func (c *Connector) Fetch(ctx context.Context, query string, limit int) ([]domain.RawItem, error) {
	if limit <= 0 {
		return nil, nil
	}

	ids, err := c.catalog.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	logger.Debug("YouTube search %q returned %d ids", query, len(ids))
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := c.catalog.GetDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("youtube video details: %w", err)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
