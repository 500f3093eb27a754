// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/pkg/types"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book to the catalog",
	Long: `Add inserts one book record. Only --title is required; everything else
can be filled later by edit or enrich. Theme slugs passed via --themes
must already exist (create them with 'themes add').

If --isbn matches a book already in the catalog the add is refused;
pass --allow-duplicate to file a second copy anyway.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("title", "", "book title (required)")
	addCmd.Flags().String("author", "", "author name")
	addCmd.Flags().String("isbn", "", "ISBN-10 or ISBN-13, hyphens allowed")
	addCmd.Flags().Int("year", 0, "year published")
	addCmd.Flags().String("date-read", "", "date read (YYYY-MM-DD)")
	addCmd.Flags().String("notes", "", "your notes")
	addCmd.Flags().Bool("recommended", false, "mark as recommended")
	addCmd.Flags().String("themes", "", "comma-separated theme slugs")
	addCmd.Flags().Bool("allow-duplicate", false, "add even when the ISBN is already in the catalog")
	addCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	author, _ := cmd.Flags().GetString("author")
	isbn, _ := cmd.Flags().GetString("isbn")
	year, _ := cmd.Flags().GetInt("year")
	dateRead, _ := cmd.Flags().GetString("date-read")
	notes, _ := cmd.Flags().GetString("notes")
	recommended, _ := cmd.Flags().GetBool("recommended")
	themes, _ := cmd.Flags().GetString("themes")
	allowDuplicate, _ := cmd.Flags().GetBool("allow-duplicate")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if isbn != "" && !allowDuplicate {
		if existing, err := store.GetBookByISBN(ctx, isbn); err == nil {
			return fmt.Errorf("book already exists with id %d: %s (use --allow-duplicate to add anyway)",
				existing.ID, existing.Title)
		}
	}

	id, err := store.AddBook(ctx, types.Book{
		Title:         title,
		Author:        author,
		ISBN:          isbn,
		YearPublished: year,
		DateRead:      dateRead,
		Notes:         notes,
		IsRecommended: recommended,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added book %d: %s\n", id, title)

	for _, slug := range strings.Split(themes, ",") {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			continue
		}
		if err := store.TagBook(ctx, id, slug); err != nil {
			fmt.Fprintf(os.Stderr, "warning: theme %q: %v\n", slug, err)
			continue
		}
		fmt.Printf("  tagged: %s\n", slug)
	}

	if catalog.NormalizeISBN(isbn) != "" {
		fmt.Println("\nRun 'bookshelf enrich' to fetch cover and publication metadata.")
	}
	return nil
}
