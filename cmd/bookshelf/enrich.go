// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/internal/enrich"
	"github.com/pdiddy/bookshelf/pkg/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill in missing metadata from OpenLibrary and Google Books",
	Long: `Enrich looks up each book's ISBN against OpenLibrary first and Google
Books as a fallback, filling in author, publication year, and cover
URL. Fields you entered by hand are never overwritten unless --force is
given. Books without an ISBN are skipped.

By default only unenriched books are processed; --book-id targets one
book, and --force retries failed and already-enriched books too.`,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().Int64("book-id", 0, "enrich a single book")
	enrichCmd.Flags().Bool("force", false, "re-enrich and overwrite enrichable fields")
	enrichCmd.Flags().Bool("dry-run", false, "list the books that would be enriched")
	enrichCmd.Flags().Duration("delay", 0, "pause between lookups (default 1s)")
	enrichCmd.Flags().Duration("timeout", 30*time.Second, "per-request HTTP timeout")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	bookID, _ := cmd.Flags().GetInt64("book-id")
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	delay, _ := cmd.Flags().GetDuration("delay")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	var books []types.Book
	if bookID != 0 {
		book, err := store.GetBook(ctx, bookID)
		if err != nil {
			return err
		}
		books = []types.Book{*book}
	} else {
		filter := catalog.Filter{NeedsEnrichment: true}
		if force {
			filter = catalog.Filter{HasISBN: true}
		}
		books, err = store.ListBooks(ctx, filter)
		if err != nil {
			return err
		}
	}

	if len(books) == 0 {
		fmt.Println("Nothing to enrich.")
		return nil
	}

	if dryRun {
		for _, book := range books {
			isbn := book.ISBN
			if isbn == "" {
				isbn = "(no ISBN)"
			}
			fmt.Printf("would enrich %d: %s %s\n", book.ID, book.Title, isbn)
		}
		fmt.Printf("\n%d book(s) would be enriched.\n", len(books))
		return nil
	}

	policy := types.MergeFillMissing
	if force {
		policy = types.MergeOverwrite
	}
	cfg := types.EnrichmentConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "bookshelf/" + version,
		},
		Policy:            policy,
		LookupDelay:       delay,
		GoogleBooksAPIKey: secretDefault("google-books-api-key", viper.GetString("enrich.google_books_api_key")),
	}

	enricher := enrich.New(&http.Client{Timeout: timeout}, cfg)
	_, err = enricher.EnrichBatch(ctx, store, books, os.Stdout)
	return err
}
