// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists book records and the theme taxonomy in SQLite.
// Every command opens a Store, performs its operation, and closes it; the
// database file is the only state shared between invocations.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bookshelf/pkg/types"
)

const defaultDBPath = "data/books.db"

// Store manages the catalog SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at cfg.DBPath. It creates the
// parent directory and the schema when they do not exist.
func Open(cfg types.CatalogConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT,
			isbn TEXT,
			year_published INTEGER,
			date_read TEXT,
			cover_url TEXT,
			notes TEXT,
			is_recommended BOOLEAN NOT NULL DEFAULT 0,
			enrichment_status TEXT NOT NULL DEFAULT 'unenriched',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS themes (
			id INTEGER PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			slug TEXT UNIQUE NOT NULL,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS book_themes (
			book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			theme_id INTEGER NOT NULL REFERENCES themes(id) ON DELETE CASCADE,
			PRIMARY KEY (book_id, theme_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_books_isbn ON books(isbn)`,
		`CREATE INDEX IF NOT EXISTS idx_books_enrichment_status ON books(enrichment_status)`,
		`CREATE TRIGGER IF NOT EXISTS books_touch_updated_at
			AFTER UPDATE ON books
			BEGIN
				UPDATE books SET updated_at = CURRENT_TIMESTAMP WHERE id = NEW.id;
			END`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NormalizeISBN strips hyphens and spaces and uppercases a trailing X.
// It does not validate check digits; a personal catalog tolerates odd
// identifiers from old imports.
func NormalizeISBN(isbn string) string {
	isbn = strings.ToUpper(strings.TrimSpace(isbn))
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == 'X' {
			return r
		}
		return -1
	}, isbn)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9-]`)

// Slugify converts a display name to a URL-safe slug: lowercased, spaces
// to hyphens, everything outside [a-z0-9-] dropped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	return slugPattern.ReplaceAllString(s, "")
}

const bookColumns = `id, title, author, isbn, year_published, date_read,
	cover_url, notes, is_recommended, enrichment_status, created_at, updated_at`

// AddBook inserts a new book and returns the assigned id. The title is
// required; the ISBN is normalized before storage.
func (s *Store) AddBook(ctx context.Context, book types.Book) (int64, error) {
	if strings.TrimSpace(book.Title) == "" {
		return 0, &ValidationError{Field: "title", Reason: "required"}
	}

	status := book.EnrichmentStatus
	if status == "" {
		status = types.EnrichmentNone
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO books (title, author, isbn, year_published, date_read,
			cover_url, notes, is_recommended, enrichment_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(book.Title), nullString(book.Author),
		nullString(NormalizeISBN(book.ISBN)), nullInt(book.YearPublished),
		nullString(book.DateRead), nullString(book.CoverURL),
		nullString(book.Notes), book.IsRecommended, string(status),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting book: %w", err)
	}
	return res.LastInsertId()
}

// GetBook returns the book with the given id, themes populated.
// Returns ErrNotFound for an unknown id.
func (s *Store) GetBook(ctx context.Context, id int64) (*types.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading book %d: %w", id, err)
	}

	book.Themes, err = s.BookThemes(ctx, id)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBookByISBN returns the first book whose normalized ISBN matches, or
// ErrNotFound. Duplicate ISBNs are legal; this is a convenience for the
// add command's duplicate check, not a uniqueness guarantee.
func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (*types.Book, error) {
	normalized := NormalizeISBN(isbn)
	if normalized == "" {
		return nil, fmt.Errorf("isbn %q: %w", isbn, ErrNotFound)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE isbn = ? ORDER BY id LIMIT 1`, normalized)

	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("isbn %s: %w", normalized, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading book by isbn: %w", err)
	}

	book.Themes, err = s.BookThemes(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Filter narrows ListBooks. The zero value matches everything.
type Filter struct {
	// ThemeSlug keeps only books tagged with the theme.
	ThemeSlug string

	// RecommendedOnly keeps only recommended books.
	RecommendedOnly bool

	// Status keeps only books with the given enrichment status.
	Status types.EnrichmentStatus

	// NeedsEnrichment keeps books with an ISBN that are missing at least
	// one enrichable field (author, year, or cover).
	NeedsEnrichment bool

	// HasISBN keeps books with a non-empty ISBN.
	HasISBN bool
}

// ListBooks returns books matching the filter, ordered by id ascending,
// with theme slugs populated and sorted.
func (s *Store) ListBooks(ctx context.Context, filter Filter) ([]types.Book, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + bookColumns + ` FROM books WHERE 1=1`)

	if filter.ThemeSlug != "" {
		qb.WriteString(` AND id IN (
			SELECT bt.book_id FROM book_themes bt
			JOIN themes t ON t.id = bt.theme_id
			WHERE t.slug = ?)`)
		args = append(args, filter.ThemeSlug)
	}
	if filter.RecommendedOnly {
		qb.WriteString(` AND is_recommended = 1`)
	}
	if filter.Status != "" {
		qb.WriteString(` AND enrichment_status = ?`)
		args = append(args, string(filter.Status))
	}
	if filter.HasISBN || filter.NeedsEnrichment {
		qb.WriteString(` AND isbn IS NOT NULL AND isbn != ''`)
	}
	if filter.NeedsEnrichment {
		qb.WriteString(` AND (author IS NULL OR author = ''
			OR year_published IS NULL OR cover_url IS NULL OR cover_url = '')`)
	}
	qb.WriteString(` ORDER BY id ASC`)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var books []types.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning book row: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	if err := s.attachThemes(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

// BookUpdate is a partial update; nil fields are left unchanged.
type BookUpdate struct {
	Title            *string
	Author           *string
	ISBN             *string
	YearPublished    *int
	DateRead         *string
	CoverURL         *string
	Notes            *string
	IsRecommended    *bool
	EnrichmentStatus *types.EnrichmentStatus
}

// UpdateBook applies a partial update to one book in a single transaction.
// Returns ErrNotFound for an unknown id and a ValidationError when the
// title would become empty.
func (s *Store) UpdateBook(ctx context.Context, id int64, upd BookUpdate) error {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if upd.Title != nil {
		set("title", strings.TrimSpace(*upd.Title))
	}
	if upd.Author != nil {
		set("author", nullString(*upd.Author))
	}
	if upd.ISBN != nil {
		set("isbn", nullString(NormalizeISBN(*upd.ISBN)))
	}
	if upd.YearPublished != nil {
		set("year_published", nullInt(*upd.YearPublished))
	}
	if upd.DateRead != nil {
		set("date_read", nullString(*upd.DateRead))
	}
	if upd.CoverURL != nil {
		set("cover_url", nullString(*upd.CoverURL))
	}
	if upd.Notes != nil {
		set("notes", nullString(*upd.Notes))
	}
	if upd.IsRecommended != nil {
		set("is_recommended", *upd.IsRecommended)
	}
	if upd.EnrichmentStatus != nil {
		set("enrichment_status", string(*upd.EnrichmentStatus))
	}

	if len(sets) == 0 {
		// Nothing to change; still report unknown ids.
		_, err := s.GetBook(ctx, id)
		return err
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating book %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating book %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteBook removes a book and, via FK cascade, its theme associations.
func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting book %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting book %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return nil
}

// AddTheme creates a theme. The slug is normalized with Slugify; duplicate
// names or slugs are ValidationErrors.
func (s *Store) AddTheme(ctx context.Context, name, slug, description string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &ValidationError{Field: "name", Reason: "required"}
	}
	slug = Slugify(slug)
	if slug == "" {
		return 0, &ValidationError{Field: "slug", Reason: "required"}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO themes (name, slug, description) VALUES (?, ?, ?)`,
		name, slug, nullString(description))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, &ValidationError{Field: "slug", Reason: fmt.Sprintf("theme %q already exists", slug)}
		}
		return 0, fmt.Errorf("inserting theme: %w", err)
	}
	return res.LastInsertId()
}

// GetTheme returns the theme with the given slug, or ErrNotFound.
func (s *Store) GetTheme(ctx context.Context, slug string) (*types.Theme, error) {
	var (
		t    types.Theme
		desc sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, slug, description FROM themes WHERE slug = ?`, slug,
	).Scan(&t.ID, &t.Name, &t.Slug, &desc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("theme %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading theme %q: %w", slug, err)
	}
	t.Description = desc.String
	return &t, nil
}

// ListThemes returns all themes ordered by slug ascending.
func (s *Store) ListThemes(ctx context.Context) ([]types.Theme, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slug, description FROM themes ORDER BY slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing themes: %w", err)
	}
	defer rows.Close()

	var themes []types.Theme
	for rows.Next() {
		var (
			t    types.Theme
			desc sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &desc); err != nil {
			return nil, fmt.Errorf("scanning theme row: %w", err)
		}
		t.Description = desc.String
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

// ThemeCount holds a theme with the number of books tagged with it.
type ThemeCount struct {
	types.Theme
	BookCount int
}

// ListThemesWithCounts returns all themes with book counts, ordered by
// slug ascending.
func (s *Store) ListThemesWithCounts(ctx context.Context) ([]ThemeCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.slug, t.description, COUNT(bt.book_id)
		 FROM themes t
		 LEFT JOIN book_themes bt ON t.id = bt.theme_id
		 GROUP BY t.id
		 ORDER BY t.slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing theme counts: %w", err)
	}
	defer rows.Close()

	var counts []ThemeCount
	for rows.Next() {
		var (
			tc   ThemeCount
			desc sql.NullString
		)
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.Slug, &desc, &tc.BookCount); err != nil {
			return nil, fmt.Errorf("scanning theme count row: %w", err)
		}
		tc.Description = desc.String
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

// DeleteTheme removes a theme by slug and, via FK cascade, its book
// associations.
func (s *Store) DeleteTheme(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM themes WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("deleting theme %q: %w", slug, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting theme %q: %w", slug, err)
	}
	if affected == 0 {
		return fmt.Errorf("theme %q: %w", slug, ErrNotFound)
	}
	return nil
}

// TagBook associates a book with a theme. Both sides are checked first so
// an unknown id or slug leaves the store untouched. Tagging twice is a
// no-op.
func (s *Store) TagBook(ctx context.Context, bookID int64, slug string) error {
	theme, err := s.GetTheme(ctx, slug)
	if err != nil {
		return err
	}

	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM books WHERE id = ?`, bookID).Scan(&exists); err != nil {
		return fmt.Errorf("checking book %d: %w", bookID, err)
	}
	if exists == 0 {
		return fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO book_themes (book_id, theme_id) VALUES (?, ?)`,
		bookID, theme.ID)
	if err != nil {
		return fmt.Errorf("tagging book %d with %q: %w", bookID, slug, err)
	}
	return nil
}

// UntagBook removes a theme association. Unknown book or slug is
// ErrNotFound; removing an association that does not exist is a no-op.
func (s *Store) UntagBook(ctx context.Context, bookID int64, slug string) error {
	theme, err := s.GetTheme(ctx, slug)
	if err != nil {
		return err
	}
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM book_themes WHERE book_id = ? AND theme_id = ?`,
		bookID, theme.ID)
	if err != nil {
		return fmt.Errorf("untagging book %d from %q: %w", bookID, slug, err)
	}
	return nil
}

// BookThemes returns the slugs tagged on a book, sorted ascending.
func (s *Store) BookThemes(ctx context.Context, bookID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.slug FROM themes t
		 JOIN book_themes bt ON t.id = bt.theme_id
		 WHERE bt.book_id = ?
		 ORDER BY t.slug ASC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("reading themes for book %d: %w", bookID, err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scanning theme slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// attachThemes fills Themes for a slice of books with one join query.
func (s *Store) attachThemes(ctx context.Context, books []types.Book) error {
	if len(books) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT bt.book_id, t.slug FROM book_themes bt
		 JOIN themes t ON t.id = bt.theme_id`)
	if err != nil {
		return fmt.Errorf("reading theme associations: %w", err)
	}
	defer rows.Close()

	byBook := make(map[int64][]string)
	for rows.Next() {
		var (
			bookID int64
			slug   string
		)
		if err := rows.Scan(&bookID, &slug); err != nil {
			return fmt.Errorf("scanning theme association: %w", err)
		}
		byBook[bookID] = append(byBook[bookID], slug)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating theme associations: %w", err)
	}

	for i := range books {
		slugs := byBook[books[i].ID]
		sort.Strings(slugs)
		books[i].Themes = slugs
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (*types.Book, error) {
	var (
		book      types.Book
		author    sql.NullString
		isbn      sql.NullString
		year      sql.NullInt64
		dateRead  sql.NullString
		coverURL  sql.NullString
		notes     sql.NullString
		status    string
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	err := row.Scan(&book.ID, &book.Title, &author, &isbn, &year, &dateRead,
		&coverURL, &notes, &book.IsRecommended, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	book.Author = author.String
	book.ISBN = isbn.String
	book.YearPublished = int(year.Int64)
	book.DateRead = dateRead.String
	book.CoverURL = coverURL.String
	book.Notes = notes.String
	book.EnrichmentStatus = types.EnrichmentStatus(status)
	book.CreatedAt = createdAt.Time
	book.UpdatedAt = updatedAt.Time
	return &book, nil
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
