// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Tag or untag a book with a theme",
	Long: `Tag associates a book with an existing theme. Tagging is idempotent;
tagging a book twice with the same theme is a no-op. Use --remove to
take the association away.`,
	RunE: runTag,
}

func init() {
	tagCmd.Flags().Int64("book-id", 0, "book to tag (required)")
	tagCmd.Flags().String("theme", "", "theme slug (required)")
	tagCmd.Flags().Bool("remove", false, "remove the tag instead of adding it")
	tagCmd.MarkFlagRequired("book-id")
	tagCmd.MarkFlagRequired("theme")

	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	bookID, _ := cmd.Flags().GetInt64("book-id")
	slug, _ := cmd.Flags().GetString("theme")
	remove, _ := cmd.Flags().GetBool("remove")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if remove {
		if err := store.UntagBook(ctx, bookID, slug); err != nil {
			return err
		}
		fmt.Printf("Removed theme %q from book %d\n", slug, bookID)
		return nil
	}

	if err := store.TagBook(ctx, bookID, slug); err != nil {
		return err
	}
	fmt.Printf("Tagged book %d with theme %q\n", bookID, slug)
	return nil
}
