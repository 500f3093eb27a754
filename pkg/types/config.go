package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bookshelf/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the record store.
type CatalogConfig struct {
	// DBPath is the SQLite database file (default "data/books.db").
	// The parent directory is created on open.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// ImportConfig holds settings for CSV import.
type ImportConfig struct {
	// Columns maps canonical field names (title, author, isbn,
	// year_published, date_read, themes, recommended, notes) to source
	// column headers. Entries override the built-in vendor detection.
	Columns map[string]string `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// EnrichmentConfig holds settings for the metadata enrichment stage.
type EnrichmentConfig struct {
	HTTPConfig `yaml:",inline"`

	// Policy selects fill-missing (default) or overwrite merging.
	Policy MergePolicy `json:"policy" yaml:"policy"`

	// LookupDelay is the pause between consecutive lookups (default 1s).
	// External APIs are shared infrastructure; one call at a time.
	LookupDelay time.Duration `json:"lookup_delay" yaml:"lookup_delay"`

	// MaxRetries bounds 429 retries per request (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// GoogleBooksAPIKey is optional; the public endpoint works without it
	// but allows higher quotas with one.
	GoogleBooksAPIKey string `json:"google_books_api_key,omitempty" yaml:"google_books_api_key,omitempty"`
}

// ExportFormat selects the export serialization.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportYAML ExportFormat = "yaml"
)

// ExportConfig holds settings for catalog export.
type ExportConfig struct {
	// OutputPath is the destination document (default "site/_data/catalog.json").
	// The parent directory is created if missing.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Format selects json (default) or yaml.
	Format ExportFormat `json:"format" yaml:"format"`
}
