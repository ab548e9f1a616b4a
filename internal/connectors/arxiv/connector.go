// Package arxiv provides the paper provider backed by the arXiv export API.
// Results arrive as an Atom feed; entries are passed on feed-shaped for the
// arXiv normaliser.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// ProviderName is the name reported by the connector.
const ProviderName = "arxiv"

const (
	// DefaultBaseURL is the export API host.
	DefaultBaseURL = "https://export.arxiv.org"

	// DefaultTimeout bounds each query.
	DefaultTimeout = 20 * time.Second

	queryPath = "/api/query"
)

// Ensure Connector implements the interface.
var _ driven.Provider = (*Connector)(nil)

// Config holds arXiv connector configuration.
type Config struct {
	// BaseURL overrides the API host (used in tests).
	BaseURL string

	// Timeout bounds each request.
	Timeout time.Duration
}

// Connector searches arXiv for papers.
type Connector struct {
	baseURL string
	client  *http.Client
}

// New creates an arXiv connector.
func New(cfg Config) *Connector {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Connector{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider name.
func (c *Connector) Name() string {
	return ProviderName
}

// Kind returns the resource kind produced.
func (c *Connector) Kind() domain.ResourceKind {
	return domain.ResourceKindPaper
}

// Fetch returns up to limit feed entries matching query in any field,
// ordered by relevance.
func (c *Connector) Fetch(ctx context.Context, query string, limit int) ([]domain.RawItem, error) {
	if limit <= 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(limit))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")
	rawQuery := "search_query=all:" + url.QueryEscape(query) + "&" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+queryPath+"?"+rawQuery, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: arxiv query: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			return nil, fmt.Errorf("%w: arxiv returned status %d", domain.ErrRateLimited, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: arxiv returned status %d: %s", domain.ErrProviderUnavailable, resp.StatusCode, snippet)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decode arxiv feed: %w", domain.ErrProviderUnavailable, err)
	}
	logger.Debug("arXiv query %q returned %d entries", query, len(f.Entries))

	items := make([]domain.RawItem, 0, len(f.Entries))
	for _, e := range f.Entries {
		items = append(items, domain.RawItem{
			Provider: ProviderName,
			Kind:     domain.ResourceKindPaper,
			Fields:   e.fields(),
		})
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
