// Package semanticscholar provides the paper provider backed by the
// Semantic Scholar Graph API paper search endpoint.
package semanticscholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// ProviderName is the name reported by the connector.
const ProviderName = "semanticscholar"

const (
	// DefaultBaseURL is the public Graph API host.
	DefaultBaseURL = "https://api.semanticscholar.org"

	// DefaultTimeout bounds each search request.
	DefaultTimeout = 20 * time.Second

	// MaxLimit is the API's upper bound for the limit parameter.
	MaxLimit = 100

	searchPath   = "/graph/v1/paper/search"
	searchFields = "title,url,abstract,authors,year,citationCount,openAccessPdf"
)

// Ensure Connector implements the interface.
var _ driven.Provider = (*Connector)(nil)

// Config holds Semantic Scholar connector configuration.
type Config struct {
	// BaseURL overrides the API host (used in tests).
	BaseURL string

	// APIKey is optional; unauthenticated requests share a public rate limit.
	APIKey string

	// Timeout bounds each request.
	Timeout time.Duration
}

// Connector searches Semantic Scholar for papers.
type Connector struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a Semantic Scholar connector.
func New(cfg Config) *Connector {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Connector{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
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

// Fetch returns up to limit paper records for query.
func (c *Connector) Fetch(ctx context.Context, query string, limit int) ([]domain.RawItem, error) {
	if limit <= 0 {
		return nil, nil
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", searchFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: semantic scholar search: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var body map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode semantic scholar response: %w", domain.ErrProviderUnavailable, err)
	}

	papers := papersOf(body)
	logger.Debug("Semantic Scholar search %q returned %d papers", query, len(papers))

	items := make([]domain.RawItem, 0, len(papers))
	for _, p := range papers {
		items = append(items, domain.RawItem{
			Provider: ProviderName,
			Kind:     domain.ResourceKindPaper,
			Fields:   p,
		})
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// papersOf reads the result list, which the API returns under "data"
// (older responses used "papers").
func papersOf(body map[string]any) []map[string]any {
	for _, key := range []string{"data", "papers"} {
		list, ok := body[key].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		out := make([]map[string]any, 0, len(list))
		for _, entry := range list {
			if m, ok := entry.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: semantic scholar returned status %d", domain.ErrRateLimited, resp.StatusCode)
	}
	return fmt.Errorf("%w: semantic scholar returned status %d: %s", domain.ErrProviderUnavailable, resp.StatusCode, snippet)
}
