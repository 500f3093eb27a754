// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// EnrichmentStatus tracks whether a book has been through metadata enrichment.
type EnrichmentStatus string

const (
	EnrichmentNone   EnrichmentStatus = "unenriched"
	EnrichmentDone   EnrichmentStatus = "enriched"
	EnrichmentFailed EnrichmentStatus = "failed"
)

// Book is one catalog entry. The ID is assigned by the store on insert and
// never changes afterwards.
type Book struct {
	// ID is the store-assigned record identifier.
	ID int64 `json:"id" yaml:"id"`

	// Title is the only required field.
	Title string `json:"title" yaml:"title"`

	// Author is the primary author as a display string.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// ISBN is the normalized lookup key for enrichment (hyphens and spaces
	// stripped). Duplicates are allowed; a personal catalog may hold two
	// editions that share one ISBN.
	ISBN string `json:"isbn,omitempty" yaml:"isbn,omitempty"`

	// YearPublished is the publication year, zero when unknown.
	YearPublished int `json:"year_published,omitempty" yaml:"year_published,omitempty"`

	// DateRead is the ISO date the book was finished, empty when unknown.
	DateRead string `json:"date_read,omitempty" yaml:"date_read,omitempty"`

	// CoverURL points at a cover image, usually filled by enrichment.
	CoverURL string `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`

	// Notes holds the reader's own notes. Enrichment never touches this.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// IsRecommended marks the book for the recommended shelf.
	IsRecommended bool `json:"is_recommended" yaml:"is_recommended"`

	// EnrichmentStatus records the outcome of the last enrichment attempt.
	EnrichmentStatus EnrichmentStatus `json:"enrichment_status,omitempty" yaml:"enrichment_status,omitempty"`

	// Themes lists the slugs of themes tagged on this book, sorted ascending.
	Themes []string `json:"themes" yaml:"themes"`

	// CreatedAt and UpdatedAt are store housekeeping timestamps.
	CreatedAt time.Time `json:"-" yaml:"-"`
	UpdatedAt time.Time `json:"-" yaml:"-"`
}

// Theme is a taxonomy tag applied to zero or more books. Slugs are unique
// and URL-safe; the static site uses them for listing page paths.
type Theme struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Metadata is the normalized result of one external lookup by ISBN.
// Empty fields mean the source had nothing to offer.
type Metadata struct {
	// Title as reported by the source. Kept for display only; enrichment
	// never overwrites a catalog title.
	Title string

	// Author is the first author's display name.
	Author string

	// YearPublished is the publication year, zero when the source omitted it.
	YearPublished int

	// CoverURL is a full-size cover image URL.
	CoverURL string

	// Source identifies which backend produced the record
	// (e.g. "openlibrary", "googlebooks").
	Source string
}

// MergePolicy selects how fetched metadata is merged into a book record.
type MergePolicy string

const (
	// MergeFillMissing writes only fields that were empty before the call.
	MergeFillMissing MergePolicy = "fill-missing"

	// MergeOverwrite replaces all enrichable fields with fetched values.
	// Notes, recommendation, reading dates, and the title are still left
	// alone.
	MergeOverwrite MergePolicy = "overwrite"
)
