// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import "strings"

// canonicalFields are the field names the importer understands. Any source
// column not mapped to one of these is ignored.
var canonicalFields = []string{
	"title", "author", "isbn", "year_published",
	"date_read", "themes", "recommended", "notes",
}

// columnMap maps canonical field names to source column headers.
type columnMap map[string]string

// goodreadsColumns maps the Goodreads library export. Goodreads wraps ISBNs
// in a spreadsheet guard (="...") which the importer strips.
var goodreadsColumns = columnMap{
	"title":          "Title",
	"author":         "Author",
	"isbn":           "ISBN13",
	"year_published": "Original Publication Year",
	"date_read":      "Date Read",
	"notes":          "My Review",
}

// storygraphColumns maps the StoryGraph export.
var storygraphColumns = columnMap{
	"title":     "Title",
	"author":    "Authors",
	"isbn":      "ISBN/UID",
	"date_read": "Last Date Read",
}

// genericColumns is the identity map for the bookshelf CSV layout.
var genericColumns = columnMap{
	"title":          "title",
	"author":         "author",
	"isbn":           "isbn",
	"year_published": "year_published",
	"date_read":      "date_read",
	"themes":         "themes",
	"recommended":    "recommended",
	"notes":          "notes",
}

// detectColumns picks a vendor map from the header row, then applies any
// user overrides on top. Detection is the same fixed heuristic the catalog
// has always used: a Goodreads export carries a "Book Id" column, a
// StoryGraph export pairs "Title" with "Authors", anything else is treated
// as the generic layout.
func detectColumns(header []string, overrides map[string]string) columnMap {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.TrimSpace(h)] = true
	}

	var base columnMap
	switch {
	case have["Book Id"]:
		base = goodreadsColumns
	case have["Title"] && have["Authors"]:
		base = storygraphColumns
	default:
		base = genericColumns
	}

	merged := make(columnMap, len(base)+len(overrides))
	for field, col := range base {
		merged[field] = col
	}
	for field, col := range overrides {
		merged[field] = col
	}
	return merged
}

// fields extracts the canonical fields of one record, trimming whitespace
// and stripping the Goodreads ISBN guard. Missing columns yield "".
func (m columnMap) fields(header, record []string) map[string]string {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	row := make(map[string]string, len(canonicalFields))
	for _, field := range canonicalFields {
		col, ok := m[field]
		if !ok {
			continue
		}
		i, ok := index[col]
		if !ok || i >= len(record) {
			continue
		}
		value := strings.TrimSpace(record[i])
		if field == "isbn" {
			value = strings.TrimSuffix(strings.TrimPrefix(value, `="`), `"`)
		}
		row[field] = value
	}
	return row
}
