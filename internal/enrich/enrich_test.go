// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(types.CatalogConfig{
		DBPath: filepath.Join(t.TempDir(), "books.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// fakeOpenLibrary serves edition JSON for known ISBNs and 404 otherwise.
func fakeOpenLibrary(t *testing.T, editions map[string]string) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isbn := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/isbn/"), ".json")
		body, ok := editions[isbn]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	old, oldCovers := openLibraryBase, openLibraryCoverBase
	openLibraryBase, openLibraryCoverBase = ts.URL, "https://covers.openlibrary.org"
	t.Cleanup(func() { openLibraryBase, openLibraryCoverBase = old, oldCovers })
}

// fakeGoogleBooks serves a volumes response for known ISBNs and an empty
// result set otherwise.
func fakeGoogleBooks(t *testing.T, volumes map[string]string) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isbn := strings.TrimPrefix(r.URL.Query().Get("q"), "isbn:")
		body, ok := volumes[isbn]
		if !ok {
			fmt.Fprint(w, `{"totalItems":0}`)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	old := googleBooksBase
	googleBooksBase = ts.URL
	t.Cleanup(func() { googleBooksBase = old })
}

func newTestEnricher(policy types.MergePolicy) *Enricher {
	return New(http.DefaultClient, types.EnrichmentConfig{
		HTTPConfig:  types.HTTPConfig{UserAgent: "bookshelf/test"},
		Policy:      policy,
		LookupDelay: 0,
	})
}

const bolanoEdition = `{
	"title": "2666",
	"by_statement": "Roberto Bolaño",
	"publish_date": "2004",
	"covers": [8231856]
}`

const bolanoVolume = `{
	"totalItems": 1,
	"items": [{"volumeInfo": {
		"title": "2666",
		"authors": ["Roberto Bolaño"],
		"publishedDate": "2004-11-01",
		"imageLinks": {"thumbnail": "https://books.google.com/books/content?id=x&zoom=1&edge=curl"}
	}}]
}`

// --- merge policy tests ---

func TestEnrichFillsMissingFields(t *testing.T) {
	fakeOpenLibrary(t, map[string]string{"9780374529253": bolanoEdition})
	fakeGoogleBooks(t, nil)

	store := testStore(t)
	ctx := context.Background()
	id, err := store.AddBook(ctx, types.Book{Title: "2666", ISBN: "9780374529253"})
	if err != nil {
		t.Fatal(err)
	}

	book, _ := store.GetBook(ctx, id)
	var buf strings.Builder
	if err := newTestEnricher(types.MergeFillMissing).EnrichBook(ctx, store, *book, &buf); err != nil {
		t.Fatalf("EnrichBook: %v", err)
	}

	got, err := store.GetBook(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Author != "Roberto Bolaño" {
		t.Errorf("Author = %q", got.Author)
	}
	if got.YearPublished != 2004 {
		t.Errorf("YearPublished = %d", got.YearPublished)
	}
	if got.CoverURL != "https://covers.openlibrary.org/b/id/8231856-L.jpg" {
		t.Errorf("CoverURL = %q", got.CoverURL)
	}
	if got.EnrichmentStatus != types.EnrichmentDone {
		t.Errorf("EnrichmentStatus = %q, want enriched", got.EnrichmentStatus)
	}
}

func TestEnrichNeverOverwritesNonEmptyWithoutForce(t *testing.T) {
	fakeOpenLibrary(t, map[string]string{"9780374529253": bolanoEdition})
	fakeGoogleBooks(t, nil)

	store := testStore(t)
	ctx := context.Background()
	id, err := store.AddBook(ctx, types.Book{
		Title:         "2666",
		Author:        "R. Bolaño (my spelling)",
		ISBN:          "9780374529253",
		YearPublished: 2008,
	})
	if err != nil {
		t.Fatal(err)
	}

	book, _ := store.GetBook(ctx, id)
	var buf strings.Builder
	if err := newTestEnricher(types.MergeFillMissing).EnrichBook(ctx, store, *book, &buf); err != nil {
		t.Fatal(err)
	}

	got, _ := store.GetBook(ctx, id)
	if got.Author != "R. Bolaño (my spelling)" {
		t.Errorf("Author overwritten to %q", got.Author)
	}
	if got.YearPublished != 2008 {
		t.Errorf("YearPublished overwritten to %d", got.YearPublished)
	}
	// Cover was empty, so it fills.
	if got.CoverURL == "" {
		t.Error("CoverURL not filled")
	}
}

func TestEnrichOverwriteSparesReaderFields(t *testing.T) {
	fakeOpenLibrary(t, map[string]string{"9780374529253": bolanoEdition})
	fakeGoogleBooks(t, nil)

	store := testStore(t)
	ctx := context.Background()
	id, err := store.AddBook(ctx, types.Book{
		Title:         "2666 (my title)",
		Author:        "someone else",
		ISBN:          "9780374529253",
		YearPublished: 1999,
		DateRead:      "2023-06-15",
		Notes:         "Sprawling masterpiece",
		IsRecommended: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	book, _ := store.GetBook(ctx, id)
	var buf strings.Builder
	if err := newTestEnricher(types.MergeOverwrite).EnrichBook(ctx, store, *book, &buf); err != nil {
		t.Fatal(err)
	}

	got, _ := store.GetBook(ctx, id)
	if got.Author != "Roberto Bolaño" {
		t.Errorf("Author = %q, want overwritten", got.Author)
	}
	if got.YearPublished != 2004 {
		t.Errorf("YearPublished = %d, want overwritten", got.YearPublished)
	}
	if got.Title != "2666 (my title)" {
		t.Errorf("Title = %q, must never change", got.Title)
	}
	if got.Notes != "Sprawling masterpiece" || !got.IsRecommended || got.DateRead != "2023-06-15" {
		t.Errorf("reader fields changed: notes=%q rec=%v date=%q", got.Notes, got.IsRecommended, got.DateRead)
	}
}

// --- backend chain tests ---

func TestEnrichFallsBackToGoogleBooks(t *testing.T) {
	fakeOpenLibrary(t, nil) // everything 404s
	fakeGoogleBooks(t, map[string]string{"9780374529253": bolanoVolume})

	store := testStore(t)
	ctx := context.Background()
	id, err := store.AddBook(ctx, types.Book{Title: "2666", ISBN: "9780374529253"})
	if err != nil {
		t.Fatal(err)
	}

	book, _ := store.GetBook(ctx, id)
	var buf strings.Builder
	if err := newTestEnricher(types.MergeFillMissing).EnrichBook(ctx, store, *book, &buf); err != nil {
		t.Fatalf("EnrichBook: %v", err)
	}
	if !strings.Contains(buf.String(), "googlebooks") {
		t.Errorf("output does not mention fallback: %s", buf.String())
	}

	got, _ := store.GetBook(ctx, id)
	if got.Author != "Roberto Bolaño" {
		t.Errorf("Author = %q", got.Author)
	}
	if got.YearPublished != 2004 {
		t.Errorf("YearPublished = %d", got.YearPublished)
	}
	if strings.Contains(got.CoverURL, "edge=curl") || strings.Contains(got.CoverURL, "zoom=1") {
		t.Errorf("CoverURL not upgraded: %q", got.CoverURL)
	}
}

func TestEnrichMissMarksFailed(t *testing.T) {
	fakeOpenLibrary(t, nil)
	fakeGoogleBooks(t, nil)

	store := testStore(t)
	ctx := context.Background()
	id, err := store.AddBook(ctx, types.Book{Title: "obscure", ISBN: "9999999999999"})
	if err != nil {
		t.Fatal(err)
	}

	book, _ := store.GetBook(ctx, id)
	var buf strings.Builder
	if err := newTestEnricher(types.MergeFillMissing).EnrichBook(ctx, store, *book, &buf); err == nil {
		t.Fatal("EnrichBook succeeded, want miss error")
	}

	got, _ := store.GetBook(ctx, id)
	if got.EnrichmentStatus != types.EnrichmentFailed {
		t.Errorf("EnrichmentStatus = %q, want failed", got.EnrichmentStatus)
	}
}

func TestEnrichServerErrorMarksFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)
	oldOL, oldGB := openLibraryBase, googleBooksBase
	openLibraryBase, googleBooksBase = ts.URL, ts.URL
	t.Cleanup(func() { openLibraryBase, googleBooksBase = oldOL, oldGB })

	store := testStore(t)
	ctx := context.Background()
	id, err := store.AddBook(ctx, types.Book{Title: "t", ISBN: "9780374529253"})
	if err != nil {
		t.Fatal(err)
	}

	book, _ := store.GetBook(ctx, id)
	var buf strings.Builder
	if err := newTestEnricher(types.MergeFillMissing).EnrichBook(ctx, store, *book, &buf); err == nil {
		t.Fatal("EnrichBook succeeded against 500s, want error")
	}

	got, _ := store.GetBook(ctx, id)
	if got.EnrichmentStatus != types.EnrichmentFailed {
		t.Errorf("EnrichmentStatus = %q, want failed", got.EnrichmentStatus)
	}
}

// --- batch tests ---

func TestEnrichBatchContinuesPastFailures(t *testing.T) {
	fakeOpenLibrary(t, map[string]string{"9780374529253": bolanoEdition})
	fakeGoogleBooks(t, nil)

	store := testStore(t)
	ctx := context.Background()
	okID, err := store.AddBook(ctx, types.Book{Title: "2666", ISBN: "9780374529253"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddBook(ctx, types.Book{Title: "missing everywhere", ISBN: "1111111111"}); err != nil {
		t.Fatal(err)
	}

	books, err := store.ListBooks(ctx, catalog.Filter{HasISBN: true})
	if err != nil {
		t.Fatal(err)
	}

	var buf strings.Builder
	summary, err := newTestEnricher(types.MergeFillMissing).EnrichBatch(ctx, store, books, &buf)
	if err != nil {
		t.Fatalf("EnrichBatch: %v", err)
	}
	if summary.Updated != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 updated 1 failed", summary)
	}

	got, _ := store.GetBook(ctx, okID)
	if got.EnrichmentStatus != types.EnrichmentDone {
		t.Errorf("ok book status = %q", got.EnrichmentStatus)
	}
}

// --- duplicate ISBN behavior ---

func TestEnrichDuplicateISBNsIndependently(t *testing.T) {
	fakeOpenLibrary(t, map[string]string{"9780374529253": bolanoEdition})
	fakeGoogleBooks(t, nil)

	store := testStore(t)
	ctx := context.Background()
	firstID, err := store.AddBook(ctx, types.Book{Title: "2666", ISBN: "9780374529253"})
	if err != nil {
		t.Fatal(err)
	}
	secondID, err := store.AddBook(ctx, types.Book{Title: "2666 (other copy)", ISBN: "9780374529253"})
	if err != nil {
		t.Fatal(err)
	}

	books, err := store.ListBooks(ctx, catalog.Filter{HasISBN: true})
	if err != nil {
		t.Fatal(err)
	}

	var buf strings.Builder
	summary, err := newTestEnricher(types.MergeFillMissing).EnrichBatch(ctx, store, books, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Updated != 2 {
		t.Errorf("Updated = %d, want both copies enriched", summary.Updated)
	}

	for _, id := range []int64{firstID, secondID} {
		got, _ := store.GetBook(ctx, id)
		if got.Author != "Roberto Bolaño" {
			t.Errorf("book %d Author = %q", id, got.Author)
		}
	}
}
