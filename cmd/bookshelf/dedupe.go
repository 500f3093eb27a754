// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf/internal/catalog"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Collapse books that share a title",
	Long: `Dedupe finds books whose titles match (case-insensitively) and keeps
the record with the most metadata, deleting the rest. By default it
only reports what it would do; pass --execute to actually delete.`,
	RunE: runDedupe,
}

func init() {
	dedupeCmd.Flags().Bool("execute", false, "delete the duplicate records")

	rootCmd.AddCommand(dedupeCmd)
}

func runDedupe(cmd *cobra.Command, args []string) error {
	execute, _ := cmd.Flags().GetBool("execute")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	var groups []catalog.DuplicateGroup
	if execute {
		groups, err = store.Dedupe(ctx)
	} else {
		groups, err = store.FindDuplicates(ctx)
	}
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		fmt.Println("No duplicate titles found.")
		return nil
	}

	for _, group := range groups {
		fmt.Printf("%q\n", group.Title)
		fmt.Printf("  keep   %d (score %d)\n", group.Keep.ID, catalog.MetadataScore(group.Keep))
		for _, book := range group.Drop {
			fmt.Printf("  delete %d (score %d)\n", book.ID, catalog.MetadataScore(book))
		}
	}
	if execute {
		fmt.Printf("\nCollapsed %d group(s).\n", len(groups))
	} else {
		fmt.Printf("\nDry run; pass --execute to delete %d duplicate(s).\n", countDrops(groups))
	}
	return nil
}

func countDrops(groups []catalog.DuplicateGroup) int {
	n := 0
	for _, group := range groups {
		n += len(group.Drop)
	}
	return n
}
