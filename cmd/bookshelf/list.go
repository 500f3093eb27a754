// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List books in the catalog",
	Long: `List prints the catalog as a table, ordered by id. Filters can be
combined: --theme keeps books tagged with a slug, --recommended keeps
the recommended shelf, --status filters on enrichment state
(unenriched, enriched, failed).`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("theme", "", "filter by theme slug")
	listCmd.Flags().Bool("recommended", false, "show only recommended books")
	listCmd.Flags().String("status", "", "filter by enrichment status: unenriched, enriched, failed")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	theme, _ := cmd.Flags().GetString("theme")
	recommended, _ := cmd.Flags().GetBool("recommended")
	status, _ := cmd.Flags().GetString("status")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	books, err := store.ListBooks(context.Background(), catalog.Filter{
		ThemeSlug:       theme,
		RecommendedOnly: recommended,
		Status:          types.EnrichmentStatus(status),
	})
	if err != nil {
		return err
	}

	if len(books) == 0 {
		fmt.Println("No books match. Add some with 'bookshelf add' or 'bookshelf import'.")
		return nil
	}

	rows := make([][]string, 0, len(books))
	for _, book := range books {
		rec := ""
		if book.IsRecommended {
			rec = "★"
		}
		year := ""
		if book.YearPublished != 0 {
			year = strconv.Itoa(book.YearPublished)
		}
		rows = append(rows, []string{
			strconv.FormatInt(book.ID, 10),
			truncate(book.Title, 40),
			truncate(book.Author, 25),
			year,
			rec,
			strings.Join(book.Themes, ", "),
		})
	}

	fmt.Println(renderTable(
		[]string{"ID", "Title", "Author", "Year", "Rec", "Themes"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	fmt.Printf("\n%d book(s)\n", len(books))
	return nil
}
