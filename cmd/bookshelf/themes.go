// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Manage the theme taxonomy (list, add, delete)",
	Long: `Themes are curated tags applied to books; the static site builds one
listing page per theme slug. Slugs are normalized to lowercase
hyphenated form and must be unique.`,
}

// --- list subcommand ---

var themesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List themes with book counts",
	RunE:  runThemesList,
}

func runThemesList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.ListThemesWithCounts(context.Background())
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("No themes defined. Create one with 'bookshelf themes add'.")
		return nil
	}

	rows := make([][]string, 0, len(counts))
	for _, tc := range counts {
		rows = append(rows, []string{
			tc.Slug,
			tc.Name,
			strconv.Itoa(tc.BookCount),
		})
	}
	fmt.Println(renderTable(
		[]string{"Slug", "Name", "Books"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	))
	return nil
}

// --- add subcommand ---

var themesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a theme",
	RunE:  runThemesAdd,
}

func runThemesAdd(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	slug, _ := cmd.Flags().GetString("slug")
	description, _ := cmd.Flags().GetString("description")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.AddTheme(context.Background(), name, slug, description)
	if err != nil {
		return err
	}
	fmt.Printf("Added theme %d: %s\n", id, name)
	return nil
}

// --- delete subcommand ---

var themesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a theme by slug",
	RunE:  runThemesDelete,
}

func runThemesDelete(cmd *cobra.Command, args []string) error {
	slug, _ := cmd.Flags().GetString("slug")
	if slug == "" {
		return fmt.Errorf("--slug is required")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteTheme(context.Background(), slug); err != nil {
		return err
	}
	fmt.Printf("Deleted theme: %s\n", slug)
	return nil
}

func init() {
	themesAddCmd.Flags().String("name", "", "display name (required)")
	themesAddCmd.Flags().String("slug", "", "URL-safe slug (required)")
	themesAddCmd.Flags().String("description", "", "short description")
	themesAddCmd.MarkFlagRequired("name")
	themesAddCmd.MarkFlagRequired("slug")

	themesDeleteCmd.Flags().String("slug", "", "slug of the theme to delete")

	themesCmd.AddCommand(themesListCmd)
	themesCmd.AddCommand(themesAddCmd)
	themesCmd.AddCommand(themesDeleteCmd)

	rootCmd.AddCommand(themesCmd)
}
