// Package sqlite persists the recipe corpus and the chunk table in a
// single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/chefrag-labs/chefrag-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage providing the recipe and
// chunk store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.chefrag/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chefrag", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "recipes.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecipeStore returns a RecipeStore interface backed by this store.
func (s *Store) RecipeStore() driven.RecipeStore {
	return &recipeStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Recipe Store ====================

// recipeStore implements driven.RecipeStore.
type recipeStore struct {
	store *Store
}

var _ driven.RecipeStore = (*recipeStore)(nil)

// SaveLinks stores listing-page links. URLs already present are
// skipped, keeping the first occurrence, which mirrors the corpus's
// link deduplication pass.
func (r *recipeStore) SaveLinks(ctx context.Context, links []driven.RecipeLink) (int, error) {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO links (url, title) VALUES (?, ?)
		ON CONFLICT(url) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	saved := 0
	for _, link := range links {
		res, err := stmt.ExecContext(ctx, link.URL, link.Title)
		if err != nil {
			return saved, fmt.Errorf("saving link %q: %w", link.URL, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			saved++
		}
	}

	if err := tx.Commit(); err != nil {
		return saved, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

// ListLinks returns stored links ordered by title. With pendingOnly
// set, only links without a scraped recipe row are returned.
func (r *recipeStore) ListLinks(ctx context.Context, pendingOnly bool) ([]driven.RecipeLink, error) {
	query := `SELECT url, title FROM links ORDER BY title`
	if pendingOnly {
		query = `
			SELECT l.url, l.title FROM links l
			LEFT JOIN recipes r ON r.url = l.url
			WHERE r.url IS NULL
			ORDER BY l.title
		`
	}

	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	defer rows.Close()

	var links []driven.RecipeLink
	for rows.Next() {
		var link driven.RecipeLink
		if err := rows.Scan(&link.URL, &link.Title); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// SaveRecord stores the scraped body for a link, overwriting any
// earlier scrape of the same URL.
func (r *recipeStore) SaveRecord(ctx context.Context, rec domain.RawRecord) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO recipes (url, title, description, ingredients, steps)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			ingredients = excluded.ingredients,
			steps = excluded.steps
	`, rec.URL, rec.Title, rec.Description, rec.Ingredients, rec.Steps)
	if err != nil {
		return fmt.Errorf("saving recipe %q: %w", rec.URL, err)
	}
	return nil
}

// ListRecords returns all raw records ordered by recipe id.
func (r *recipeStore) ListRecords(ctx context.Context) ([]domain.RawRecord, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT recipe_id, url, title, description, ingredients, steps
		FROM recipes ORDER BY recipe_id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	defer rows.Close()

	var recs []domain.RawRecord
	for rows.Next() {
		var rec domain.RawRecord
		if err := rows.Scan(&rec.RecipeID, &rec.URL, &rec.Title,
			&rec.Description, &rec.Ingredients, &rec.Steps); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// UpdateRecords rewrites the text fields of the given records.
func (r *recipeStore) UpdateRecords(ctx context.Context, recs []domain.RawRecord) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE recipes
		SET title = ?, description = ?, ingredients = ?, steps = ?
		WHERE recipe_id = ?
	`)
	if err != nil {
		return fmt.Errorf("prepare update: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx, rec.Title, rec.Description,
			rec.Ingredients, rec.Steps, rec.RecipeID); err != nil {
			return fmt.Errorf("updating recipe %d: %w", rec.RecipeID, err)
		}
	}

	return tx.Commit()
}

// RecordScrapeSession records a completed scrape run.
func (r *recipeStore) RecordScrapeSession(ctx context.Context, sessionID string, pages, links int) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO scrape_sessions (id, pages, links) VALUES (?, ?, ?)
	`, sessionID, pages, links)
	if err != nil {
		return fmt.Errorf("recording scrape session: %w", err)
	}
	return nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// ReplaceChunks atomically replaces the whole chunk table. Chunk ids
// are produced dense by the builder; replacing wholesale keeps the
// table aligned with whichever embedding store file is built next.
func (c *chunkStore) ReplaceChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, recipe_id, chunk_type, chunk_text, full_recipe)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.RecipeID,
			string(chunk.Type), chunk.Text, chunk.FullRecipe); err != nil {
			return fmt.Errorf("saving chunk %d: %w", chunk.ID, err)
		}
	}

	return tx.Commit()
}

// ListChunks returns all chunks ordered by chunk id.
func (c *chunkStore) ListChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT chunk_id, recipe_id, chunk_type, chunk_text, full_recipe
		FROM chunks ORDER BY chunk_id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var typ string
		if err := rows.Scan(&chunk.ID, &chunk.RecipeID, &typ,
			&chunk.Text, &chunk.FullRecipe); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Type = domain.ChunkType(typ)
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// CountChunks returns the number of stored chunks.
func (c *chunkStore) CountChunks(ctx context.Context) (int, error) {
	var n int
	row := c.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}
