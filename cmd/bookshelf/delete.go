// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete BOOK_ID",
	Short: "Delete a book from the catalog",
	Long: `Delete removes a book and its theme associations. Asks for confirmation
unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid book id %q", args[0])
	}
	force, _ := cmd.Flags().GetBool("force")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	book, err := store.GetBook(ctx, id)
	if err != nil {
		return err
	}

	if !force {
		fmt.Printf("Delete %q? [y/N] ", book.Title)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(line)) != "y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.DeleteBook(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted: %s\n", book.Title)
	return nil
}
