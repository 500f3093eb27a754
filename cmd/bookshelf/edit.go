// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf/internal/catalog"
)

var editCmd = &cobra.Command{
	Use:   "edit BOOK_ID",
	Short: "Edit fields of an existing book",
	Long: `Edit updates only the fields whose flags are given; everything else is
left alone. Clearing a text field is done by passing an empty value,
e.g. --notes "". The title cannot be cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("author", "", "new author")
	editCmd.Flags().String("isbn", "", "new ISBN")
	editCmd.Flags().Int("year", 0, "new year published")
	editCmd.Flags().String("date-read", "", "new date read (YYYY-MM-DD)")
	editCmd.Flags().String("notes", "", "new notes")
	editCmd.Flags().Bool("recommended", false, "mark as recommended")
	editCmd.Flags().Bool("no-recommended", false, "unmark as recommended")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid book id %q", args[0])
	}

	var upd catalog.BookUpdate

	// Only flags the user actually set become part of the update.
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		upd.Title = &v
	}
	if cmd.Flags().Changed("author") {
		v, _ := cmd.Flags().GetString("author")
		upd.Author = &v
	}
	if cmd.Flags().Changed("isbn") {
		v, _ := cmd.Flags().GetString("isbn")
		upd.ISBN = &v
	}
	if cmd.Flags().Changed("year") {
		v, _ := cmd.Flags().GetInt("year")
		upd.YearPublished = &v
	}
	if cmd.Flags().Changed("date-read") {
		v, _ := cmd.Flags().GetString("date-read")
		upd.DateRead = &v
	}
	if cmd.Flags().Changed("notes") {
		v, _ := cmd.Flags().GetString("notes")
		upd.Notes = &v
	}
	if cmd.Flags().Changed("recommended") {
		v := true
		upd.IsRecommended = &v
	}
	if cmd.Flags().Changed("no-recommended") {
		v := false
		upd.IsRecommended = &v
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.UpdateBook(ctx, id, upd); err != nil {
		return err
	}

	book, err := store.GetBook(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Updated book %d: %s\n", book.ID, book.Title)
	return nil
}
