package youtube

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.VideoCatalog = (*Catalog)(nil)

var (
	searchParts  = []string{"snippet"}
	detailsParts = []string{"snippet", "statistics", "contentDetails"}
)

// Catalog is a VideoCatalog backed by the YouTube Data API.
type Catalog struct {
	service *youtubeapi.Service
	config  Config
}

// NewCatalog creates a YouTube API client authenticated with an API key.
func NewCatalog(ctx context.Context, cfg Config) (*Catalog, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg = cfg.withDefaults()

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := youtubeapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Catalog{service: svc, config: cfg}, nil
}

// Search returns up to maxResults video ids matching query.
func (c *Catalog) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		return nil, nil
	}
	if maxResults > MaxResultsPerPage {
		maxResults = MaxResultsPerPage
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.service.Search.List(searchParts).
		Q(query).
		Type("video").
		MaxResults(int64(maxResults)).
		Order(c.config.Order).
		VideoDuration(c.config.VideoDuration).
		RelevanceLanguage(c.config.RelevanceLanguage).
		Context(ctx).
		Do()
	if err != nil {
		return nil, WrapError(err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
	}
	return ids, nil
}

// GetDetails fetches full video records for ids, preserving API order.
func (c *Catalog) GetDetails(ctx context.Context, ids []string) ([]domain.RawItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.service.Videos.List(detailsParts).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, WrapError(err)
	}

	items := make([]domain.RawItem, 0, len(resp.Items))
	for _, video := range resp.Items {
		if video == nil {
			continue
		}
		fields, err := toFields(video)
		if err != nil {
			return nil, fmt.Errorf("%w: decode video %s: %w", domain.ErrProviderUnavailable, video.Id, err)
		}
		items = append(items, domain.RawItem{
			Provider: ProviderName,
			Kind:     domain.ResourceKindVideo,
			Fields:   fields,
		})
	}
	return items, nil
}

// toFields re-encodes a typed API video into its wire JSON shape.
func toFields(video *youtubeapi.Video) (map[string]any, error) {
	data, err := json.Marshal(video)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
