package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Catalog {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	catalog, err := NewCatalog(context.Background(), Config{APIKey: "test-key", Endpoint: srv.URL + "/"})
	require.NoError(t, err)
	return catalog
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewCatalog_MissingAPIKey(t *testing.T) {
	_, err := NewCatalog(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestCatalog_Search(t *testing.T) {
	var query map[string][]string
	catalog := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/search"), r.URL.Path)
		query = r.URL.Query()
		writeJSON(w, map[string]any{
			"items": []any{
				map[string]any{"id": map[string]any{"kind": "youtube#video", "videoId": "a1"}},
				map[string]any{"id": map[string]any{"kind": "youtube#channel", "channelId": "c1"}},
				map[string]any{"id": map[string]any{"kind": "youtube#video", "videoId": "b2"}},
			},
		})
	})

	ids, err := catalog.Search(context.Background(), "neural networks", 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, ids)

	assert.Equal(t, "neural networks", query["q"][0])
	assert.Equal(t, "video", query["type"][0])
	assert.Equal(t, "20", query["maxResults"][0])
	assert.Equal(t, DefaultOrder, query["order"][0])
	assert.Equal(t, DefaultVideoDuration, query["videoDuration"][0])
	assert.Equal(t, DefaultRelevanceLanguage, query["relevanceLanguage"][0])
}

func TestCatalog_Search_CapsMaxResults(t *testing.T) {
	var maxResults string
	catalog := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		maxResults = r.URL.Query().Get("maxResults")
		writeJSON(w, map[string]any{"items": []any{}})
	})

	_, err := catalog.Search(context.Background(), "q", 500)
	require.NoError(t, err)
	assert.Equal(t, "50", maxResults)
}

func TestCatalog_GetDetails(t *testing.T) {
	catalog := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/videos"), r.URL.Path)
		writeJSON(w, map[string]any{
			"items": []any{
				map[string]any{
					"id": "a1",
					"snippet": map[string]any{
						"title":        "Intro to Go",
						"channelTitle": "Gophers",
					},
					"statistics":     map[string]any{"viewCount": "1500", "likeCount": "20"},
					"contentDetails": map[string]any{"duration": "PT10M"},
				},
			},
		})
	})

	items, err := catalog.GetDetails(context.Background(), []string{"a1"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, ProviderName, item.Provider)
	assert.Equal(t, domain.ResourceKindVideo, item.Kind)
	assert.Equal(t, "a1", item.Field("id"))

	snippet, ok := item.Field("snippet").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Intro to Go", snippet["title"])

	stats, ok := item.Field("statistics").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1500", stats["viewCount"])
}

func TestCatalog_GetDetails_NoIDs(t *testing.T) {
	called := false
	catalog := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
	})

	items, err := catalog.GetDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.False(t, called)
}

func TestCatalog_Search_QuotaExceeded(t *testing.T) {
	catalog := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded","message":"quota"}]}}`))
	})

	_, err := catalog.Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
}
