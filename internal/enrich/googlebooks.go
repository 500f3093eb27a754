// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/bookshelf/internal/httputil"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// googleBooksBase is the Google Books volumes endpoint. Declared as a var
// so tests can substitute an httptest server.
var googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// GoogleBooksBackend is the fallback source. It resolves author names
// directly and works without an API key; a key from .secrets/ raises the
// quota.
type GoogleBooksBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *GoogleBooksBackend) Name() string { return "googlebooks" }

// Lookup searches volumes by ISBN. An empty result set is a miss (nil, nil);
// any non-2xx status or a malformed body is an error.
func (b *GoogleBooksBackend) Lookup(ctx context.Context, isbn string, cfg types.EnrichmentConfig) (*types.Metadata, error) {
	params := url.Values{
		"q":          {"isbn:" + isbn},
		"maxResults": {"1"},
	}
	if cfg.GoogleBooksAPIKey != "" {
		params.Set("key", cfg.GoogleBooksAPIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleBooksBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Google Books request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google Books returned HTTP %d", resp.StatusCode)
	}

	var gbr googleBooksResponse
	if err := json.NewDecoder(resp.Body).Decode(&gbr); err != nil {
		return nil, fmt.Errorf("parsing Google Books response: %w", err)
	}
	if len(gbr.Items) == 0 {
		return nil, nil
	}

	info := gbr.Items[0].VolumeInfo
	meta := &types.Metadata{
		Title:         info.Title,
		YearPublished: yearFromPublishDate(info.PublishedDate),
		Source:        b.Name(),
	}
	if len(info.Authors) > 0 {
		meta.Author = info.Authors[0]
	}
	if thumb := info.ImageLinks.Thumbnail; thumb != "" {
		meta.CoverURL = upgradeCoverURL(thumb)
	}
	return meta, nil
}

// upgradeCoverURL rewrites a Google Books thumbnail URL for a larger image:
// the curl-page-edge effect is dropped and the zoom level raised.
func upgradeCoverURL(u string) string {
	u = strings.ReplaceAll(u, "&edge=curl", "")
	return strings.ReplaceAll(u, "zoom=1", "zoom=2")
}

// Google Books volumes JSON structures (subset).
type googleBooksResponse struct {
	TotalItems int               `json:"totalItems"`
	Items      []googleBooksItem `json:"items"`
}

type googleBooksItem struct {
	VolumeInfo googleBooksVolumeInfo `json:"volumeInfo"`
}

type googleBooksVolumeInfo struct {
	Title         string                `json:"title"`
	Authors       []string              `json:"authors"`
	PublishedDate string                `json:"publishedDate"`
	ImageLinks    googleBooksImageLinks `json:"imageLinks"`
}

type googleBooksImageLinks struct {
	Thumbnail string `json:"thumbnail"`
}
