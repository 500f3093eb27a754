// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show BOOK_ID",
	Short: "Show the full record for one book",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid book id %q", args[0])
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	book, err := store.GetBook(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("ID:      %d\n", book.ID)
	fmt.Printf("Title:   %s\n", book.Title)
	if book.Author != "" {
		fmt.Printf("Author:  %s\n", book.Author)
	}
	if book.ISBN != "" {
		fmt.Printf("ISBN:    %s\n", book.ISBN)
	}
	if book.YearPublished != 0 {
		fmt.Printf("Year:    %d\n", book.YearPublished)
	}
	if book.DateRead != "" {
		fmt.Printf("Read:    %s\n", book.DateRead)
	}
	recommended := "no"
	if book.IsRecommended {
		recommended = "yes"
	}
	fmt.Printf("Recommended: %s\n", recommended)
	fmt.Printf("Enrichment:  %s\n", book.EnrichmentStatus)
	if len(book.Themes) > 0 {
		fmt.Printf("Themes:  %s\n", strings.Join(book.Themes, ", "))
	}
	if book.CoverURL != "" {
		fmt.Printf("Cover:   %s\n", book.CoverURL)
	}
	if book.Notes != "" {
		fmt.Printf("\nNotes:\n%s\n", book.Notes)
	}
	return nil
}
