// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/pdiddy/bookshelf/internal/httputil"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// openLibraryBase is the OpenLibrary edition endpoint. Declared as a var so
// tests can substitute an httptest server.
var openLibraryBase = "https://openlibrary.org"

// openLibraryCoverBase serves cover images by cover id.
var openLibraryCoverBase = "https://covers.openlibrary.org"

// OpenLibraryBackend looks up editions by ISBN. OpenLibrary is keyless and
// the primary source; its edition records carry title, publish date, and
// cover ids but not resolved author names.
type OpenLibraryBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *OpenLibraryBackend) Name() string { return "openlibrary" }

// Lookup fetches the edition record for an ISBN. A 404 is a miss (nil, nil);
// any other non-2xx status or a malformed body is an error.
func (b *OpenLibraryBackend) Lookup(ctx context.Context, isbn string, cfg types.EnrichmentConfig) (*types.Metadata, error) {
	reqURL := fmt.Sprintf("%s/isbn/%s.json", openLibraryBase, isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("OpenLibrary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenLibrary returned HTTP %d", resp.StatusCode)
	}

	var edition openLibraryEdition
	if err := json.NewDecoder(resp.Body).Decode(&edition); err != nil {
		return nil, fmt.Errorf("parsing OpenLibrary response: %w", err)
	}

	meta := &types.Metadata{
		Title:         edition.Title,
		YearPublished: yearFromPublishDate(edition.PublishDate),
		Source:        b.Name(),
	}
	if len(edition.Covers) > 0 {
		meta.CoverURL = fmt.Sprintf("%s/b/id/%d-L.jpg", openLibraryCoverBase, edition.Covers[0])
	}
	if edition.ByStatement != "" {
		meta.Author = edition.ByStatement
	}
	return meta, nil
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// yearFromPublishDate pulls the year out of OpenLibrary's free-form publish
// dates ("2004", "June 15, 2004", "2004-06-15").
func yearFromPublishDate(s string) int {
	match := yearPattern.FindString(s)
	if match == "" {
		return 0
	}
	year, _ := strconv.Atoi(match)
	return year
}

// OpenLibrary edition JSON structure (subset).
type openLibraryEdition struct {
	Title       string `json:"title"`
	PublishDate string `json:"publish_date"`
	ByStatement string `json:"by_statement"`
	Covers      []int  `json:"covers"`
}
