// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes the catalog into the document the static site
// generator consumes. The document is the sole contract with the site
// build: books ordered by id, themes ordered by slug, plus a generation
// timestamp.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// DefaultOutputPath is where the site generator looks for the catalog.
const DefaultOutputPath = "site/_data/catalog.json"

// Document is the exported catalog shape.
type Document struct {
	Books       []types.Book  `json:"books" yaml:"books"`
	Themes      []types.Theme `json:"themes" yaml:"themes"`
	GeneratedAt string        `json:"generated_at" yaml:"generated_at"`
}

// now is stubbed in tests to pin the timestamp.
var now = time.Now

// Build reads all books (themes joined) and all themes from the store.
// Books come back ordered by id ascending and themes by slug ascending, so
// repeated exports of an unchanged store are byte-identical apart from the
// timestamp.
func Build(ctx context.Context, store *catalog.Store) (*Document, error) {
	books, err := store.ListBooks(ctx, catalog.Filter{})
	if err != nil {
		return nil, fmt.Errorf("reading books: %w", err)
	}
	themes, err := store.ListThemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading themes: %w", err)
	}

	// The site templates iterate both arrays unconditionally.
	if books == nil {
		books = []types.Book{}
	}
	if themes == nil {
		themes = []types.Theme{}
	}
	for i := range books {
		if books[i].Themes == nil {
			books[i].Themes = []string{}
		}
	}

	return &Document{
		Books:       books,
		Themes:      themes,
		GeneratedAt: now().UTC().Format(time.RFC3339),
	}, nil
}

// Export writes the catalog document to cfg.OutputPath in the configured
// format. The whole document is marshaled in memory and written in one
// call; there is no partial-write state to recover from.
func Export(ctx context.Context, store *catalog.Store, cfg types.ExportConfig) error {
	doc, err := Build(ctx, store)
	if err != nil {
		return err
	}

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}

	var data []byte
	switch cfg.Format {
	case types.ExportYAML:
		data, err = yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case types.ExportJSON, "":
		data, err = json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", cfg.Format)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}
