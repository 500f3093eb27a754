// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich fills missing book metadata from external lookup services
// keyed by ISBN. OpenLibrary is tried first, Google Books on a miss; one
// request at a time with a polite delay between books. A failed lookup
// marks the book and the batch moves on.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// Backend is one external metadata source. Lookup returns (nil, nil) when
// the source has no record for the ISBN.
type Backend interface {
	Name() string
	Lookup(ctx context.Context, isbn string, cfg types.EnrichmentConfig) (*types.Metadata, error)
}

// Summary holds the outcome of an enrichment run.
type Summary struct {
	Updated int
	Failed  int
}

// Total returns the number of books processed.
func (s Summary) Total() int {
	return s.Updated + s.Failed
}

// Enricher coordinates lookups against an ordered backend chain.
type Enricher struct {
	backends []Backend
	cfg      types.EnrichmentConfig
}

// New builds an Enricher with the default backend chain.
func New(client *http.Client, cfg types.EnrichmentConfig) *Enricher {
	if cfg.LookupDelay == 0 {
		cfg.LookupDelay = time.Second
	}
	return &Enricher{
		backends: []Backend{
			&OpenLibraryBackend{Client: client},
			&GoogleBooksBackend{Client: client},
		},
		cfg: cfg,
	}
}

// EnrichBook runs one book through the backend chain and merges the result
// into the store under the configured policy. The enrichment status is
// persisted either way: enriched on success, failed when every source
// missed or errored.
func (e *Enricher) EnrichBook(ctx context.Context, store *catalog.Store, book types.Book, w io.Writer) error {
	if book.ISBN == "" {
		return fmt.Errorf("book %d has no ISBN", book.ID)
	}

	fmt.Fprintf(w, "enriching: %s (isbn %s)\n", book.Title, book.ISBN)

	var meta *types.Metadata
	for _, backend := range e.backends {
		m, err := backend.Lookup(ctx, book.ISBN, e.cfg)
		if err != nil {
			fmt.Fprintf(w, "  warning: %s: %v\n", backend.Name(), err)
			continue
		}
		if m != nil {
			fmt.Fprintf(w, "  found record via %s\n", backend.Name())
			meta = m
			break
		}
	}

	if meta == nil {
		return e.markFailed(ctx, store, book.ID, fmt.Errorf("no source returned a record for isbn %s", book.ISBN))
	}

	upd := mergeUpdate(book, *meta, e.cfg.Policy)
	status := types.EnrichmentDone
	upd.EnrichmentStatus = &status

	if err := store.UpdateBook(ctx, book.ID, upd); err != nil {
		return e.markFailed(ctx, store, book.ID, fmt.Errorf("saving enrichment: %w", err))
	}
	return nil
}

// markFailed persists the failed status so the book shows up in
// `list --status failed` for later re-runs, then returns cause.
func (e *Enricher) markFailed(ctx context.Context, store *catalog.Store, bookID int64, cause error) error {
	status := types.EnrichmentFailed
	if err := store.UpdateBook(ctx, bookID, catalog.BookUpdate{EnrichmentStatus: &status}); err != nil {
		return fmt.Errorf("%v (and persisting failed status: %w)", cause, err)
	}
	return cause
}

// EnrichBatch processes books sequentially, continuing past individual
// failures, with the configured delay between lookups.
func (e *Enricher) EnrichBatch(ctx context.Context, store *catalog.Store, books []types.Book, w io.Writer) (Summary, error) {
	var summary Summary
	for i, book := range books {
		if i > 0 && e.cfg.LookupDelay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(e.cfg.LookupDelay):
			}
		}

		if err := e.EnrichBook(ctx, store, book, w); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", book.Title, err)
			summary.Failed++
			continue
		}
		summary.Updated++
	}

	fmt.Fprintf(w, "\nEnrichment summary: %d updated, %d failed (total: %d)\n",
		summary.Updated, summary.Failed, summary.Total())
	return summary, nil
}

// mergeUpdate builds the partial update for one book under the given
// policy. Enrichable fields are author, year published, and cover URL.
// Title, notes, recommendation, and reading dates belong to the reader and
// are never written.
func mergeUpdate(book types.Book, meta types.Metadata, policy types.MergePolicy) catalog.BookUpdate {
	overwrite := policy == types.MergeOverwrite

	var upd catalog.BookUpdate
	if meta.Author != "" && (overwrite || book.Author == "") {
		upd.Author = &meta.Author
	}
	if meta.YearPublished != 0 && (overwrite || book.YearPublished == 0) {
		upd.YearPublished = &meta.YearPublished
	}
	if meta.CoverURL != "" && (overwrite || book.CoverURL == "") {
		upd.CoverURL = &meta.CoverURL
	}
	return upd
}
