// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf/internal/export"
	"github.com/pdiddy/bookshelf/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog document for the static site build",
	Long: `Export serializes the whole catalog (books with their themes, the theme
list, and a generation timestamp) into one document the static site
generator reads. JSON is the default; YAML is available for other
consumers.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", export.DefaultOutputPath, "destination file")
	exportCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := types.ExportConfig{
		OutputPath: output,
		Format:     types.ExportFormat(format),
	}
	if err := export.Export(context.Background(), store, cfg); err != nil {
		return err
	}
	fmt.Printf("Exported catalog to %s\n", output)
	return nil
}
