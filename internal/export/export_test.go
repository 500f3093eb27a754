// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(types.CatalogConfig{
		DBPath: filepath.Join(t.TempDir(), "books.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedCatalog(t *testing.T, store *catalog.Store) []int64 {
	t.Helper()
	ctx := context.Background()

	for _, theme := range [][2]string{{"Poetry", "poetry"}, {"Fiction", "fiction"}} {
		if _, err := store.AddTheme(ctx, theme[0], theme[1], ""); err != nil {
			t.Fatal(err)
		}
	}

	var ids []int64
	for _, book := range []types.Book{
		{Title: "2666", Author: "Roberto Bolaño", ISBN: "9780374529253", IsRecommended: true},
		{Title: "The Rings of Saturn", Author: "W. G. Sebald"},
	} {
		id, err := store.AddBook(ctx, book)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	if err := store.TagBook(ctx, ids[0], "fiction"); err != nil {
		t.Fatal(err)
	}
	return ids
}

// --- tests ---

func TestExportRoundTrip(t *testing.T) {
	store := testStore(t)
	ids := seedCatalog(t, store)

	outputPath := filepath.Join(t.TempDir(), "catalog.json")
	if err := Export(context.Background(), store, types.ExportConfig{OutputPath: outputPath}); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("reparsing export: %v", err)
	}

	if len(doc.Books) != len(ids) {
		t.Fatalf("books = %d, want %d", len(doc.Books), len(ids))
	}
	for i, id := range ids {
		if doc.Books[i].ID != id {
			t.Errorf("books[%d].ID = %d, want %d", i, doc.Books[i].ID, id)
		}
	}
	if doc.Books[0].Themes[0] != "fiction" {
		t.Errorf("books[0].Themes = %v", doc.Books[0].Themes)
	}
	if !doc.Books[0].IsRecommended {
		t.Error("books[0].IsRecommended lost in export")
	}

	// Themes ordered by slug ascending.
	if len(doc.Themes) != 2 || doc.Themes[0].Slug != "fiction" || doc.Themes[1].Slug != "poetry" {
		t.Errorf("themes = %v", doc.Themes)
	}

	if _, err := time.Parse(time.RFC3339, doc.GeneratedAt); err != nil {
		t.Errorf("generated_at %q not RFC3339: %v", doc.GeneratedAt, err)
	}
}

func TestExportDeterministic(t *testing.T) {
	store := testStore(t)
	seedCatalog(t, store)

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	oldNow := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = oldNow })

	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	for _, path := range []string{first, second} {
		if err := Export(context.Background(), store, types.ExportConfig{OutputPath: path}); err != nil {
			t.Fatal(err)
		}
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("repeated export of unchanged store differs")
	}
}

func TestExportEmptyCatalog(t *testing.T) {
	store := testStore(t)

	outputPath := filepath.Join(t.TempDir(), "catalog.json")
	if err := Export(context.Background(), store, types.ExportConfig{OutputPath: outputPath}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	// Empty arrays, not nulls; the site templates iterate them blindly.
	if string(raw["books"]) != "[]" {
		t.Errorf("books = %s, want []", raw["books"])
	}
	if string(raw["themes"]) != "[]" {
		t.Errorf("themes = %s, want []", raw["themes"])
	}
}

func TestExportYAMLFormat(t *testing.T) {
	store := testStore(t)
	seedCatalog(t, store)

	outputPath := filepath.Join(t.TempDir(), "catalog.yaml")
	err := Export(context.Background(), store, types.ExportConfig{
		OutputPath: outputPath,
		Format:     types.ExportYAML,
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("reparsing YAML export: %v", err)
	}
	if len(doc.Books) != 2 {
		t.Errorf("books = %d, want 2", len(doc.Books))
	}
}

func TestExportUnwritableDestination(t *testing.T) {
	store := testStore(t)

	err := Export(context.Background(), store, types.ExportConfig{
		OutputPath: filepath.Join(string(os.PathSeparator), "dev", "null", "nested", "catalog.json"),
	})
	if err == nil {
		t.Fatal("Export to unwritable path succeeded, want error")
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	store := testStore(t)

	err := Export(context.Background(), store, types.ExportConfig{
		OutputPath: filepath.Join(t.TempDir(), "catalog.toml"),
		Format:     "toml",
	})
	if err == nil {
		t.Fatal("Export with unknown format succeeded, want error")
	}
}
