// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookshelf/internal/importer"
	"github.com/pdiddy/bookshelf/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import books from a CSV file",
	Long: `Import reads a CSV export and inserts one book per row. Goodreads and
StoryGraph exports are recognized by their headers; anything else is read
with the generic layout:

  title,author,isbn,year_published,date_read,themes,recommended,notes

Rows without a title are reported and skipped, never fatal. Column
mappings can be overridden via the import.columns map in the config file
(canonical field name to source column header).`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringP("file", "f", "", "CSV file to import (required)")
	importCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := types.ImportConfig{
		Columns: viper.GetStringMapString("import.columns"),
	}

	_, err = importer.Import(context.Background(), store, file, cfg, os.Stdout)
	return err
}
