// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer loads book records from CSV exports into the catalog.
// It understands the generic bookshelf layout plus the export formats of
// common reading trackers (Goodreads, StoryGraph) via column maps.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// RowError records one row that could not be imported.
type RowError struct {
	// Line is the 1-based line number in the CSV file (header is line 1).
	Line int

	// Reason describes why the row was skipped.
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Summary holds the outcome of an import run.
type Summary struct {
	Imported int
	Skipped  int
	Errors   []RowError
}

// Total returns the number of data rows processed.
func (s Summary) Total() int {
	return s.Imported + s.Skipped + len(s.Errors)
}

// Import reads the CSV file at path and inserts one book per valid row.
// Rows without a title are collected as errors and never inserted; the run
// continues past them. Unknown theme slugs produce warnings, not failures.
// Per-row status goes to w.
func Import(ctx context.Context, store *catalog.Store, path string, cfg types.ImportConfig, w io.Writer) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Summary{}, fmt.Errorf("reading CSV header: %w", err)
	}

	colMap := detectColumns(header, cfg.Columns)

	var summary Summary
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			summary.Errors = append(summary.Errors, RowError{Line: line, Reason: fmt.Sprintf("malformed row: %v", err)})
			continue
		}

		row := colMap.fields(header, record)

		title := row["title"]
		if title == "" {
			summary.Errors = append(summary.Errors, RowError{Line: line, Reason: "missing title"})
			continue
		}

		// Skip exact re-imports: same ISBN already present.
		if isbn := catalog.NormalizeISBN(row["isbn"]); isbn != "" {
			if existing, err := store.GetBookByISBN(ctx, isbn); err == nil {
				fmt.Fprintf(w, "skipped: %s (isbn already in catalog as id %d)\n", title, existing.ID)
				summary.Skipped++
				continue
			}
		}

		book := types.Book{
			Title:         title,
			Author:        row["author"],
			ISBN:          row["isbn"],
			Notes:         row["notes"],
			IsRecommended: parseBool(row["recommended"]),
		}

		if yearStr := row["year_published"]; yearStr != "" {
			if year, ok := parseYear(yearStr); ok {
				book.YearPublished = year
			} else {
				fmt.Fprintf(w, "warning: line %d: unparseable year %q, storing null\n", line, yearStr)
			}
		}

		if dateStr := row["date_read"]; dateStr != "" {
			if parsed, err := dateparse.ParseAny(dateStr); err == nil {
				book.DateRead = parsed.Format("2006-01-02")
			} else {
				fmt.Fprintf(w, "warning: line %d: unparseable date %q, storing null\n", line, dateStr)
			}
		}

		id, err := store.AddBook(ctx, book)
		if err != nil {
			summary.Errors = append(summary.Errors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		fmt.Fprintf(w, "imported: %s (id %d)\n", title, id)
		summary.Imported++

		for _, slug := range splitThemes(row["themes"]) {
			if err := store.TagBook(ctx, id, slug); err != nil {
				fmt.Fprintf(w, "warning: line %d: theme %q: %v\n", line, slug, err)
			}
		}
	}

	fmt.Fprintf(w, "\nImport summary: %d imported, %d skipped, %d errors (total: %d)\n",
		summary.Imported, summary.Skipped, len(summary.Errors), summary.Total())
	for _, rowErr := range summary.Errors {
		fmt.Fprintf(w, "  %s\n", rowErr)
	}
	return summary, nil
}

// parseBool coerces the boolean-ish strings that reading trackers emit.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "x":
		return true
	}
	return false
}

// parseYear accepts plain integers and float-ish exports like "2004.0".
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if year, err := strconv.Atoi(s); err == nil {
		return year, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

func splitThemes(s string) []string {
	var slugs []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			slugs = append(slugs, part)
		}
	}
	return slugs
}
