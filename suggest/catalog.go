package suggest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"
)

// Catalog is an in-memory provider over a fixed list of suggestions.
type Catalog []Suggestion

// Lookup returns the catalog entries matching query.
func (c Catalog) Lookup(ctx context.Context, query string) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Filter(c, query), nil
}

// SQLiteCatalog is a provider backed by a SQLite database of variables.
type SQLiteCatalog struct {
	db     *sql.DB
	dbPath string
}

// OpenSQLiteCatalog opens or creates a catalog database at dbPath. Use
// ":memory:" for a private in-memory catalog.
func OpenSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	c := &SQLiteCatalog{db: db, dbPath: dbPath}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return c, nil
}

func (c *SQLiteCatalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS variables (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_variables_name ON variables(name);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Close closes the database.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// Add inserts suggestions, replacing the names of any with existing ids.
func (c *SQLiteCatalog) Add(ctx context.Context, list ...Suggestion) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO variables (id, name) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET name = excluded.name`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range list {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name); err != nil {
			return fmt.Errorf("failed to insert %q: %w", s.ID, err)
		}
	}
	return tx.Commit()
}

// Lookup returns the variables whose names contain query, in insertion order.
func (c *SQLiteCatalog) Lookup(ctx context.Context, query string) ([]Suggestion, error) {
	// SQLite's lower only folds ASCII, so other queries are filtered in Go.
	q := `SELECT id, name FROM variables ORDER BY seq`
	var args []any
	if isASCII(query) {
		q = `SELECT id, name FROM variables WHERE instr(lower(name), lower(?)) > 0 ORDER BY seq`
		args = append(args, query)
	}
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var list []Suggestion
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Filter(list, query), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
