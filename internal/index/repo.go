package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/ley/internal/apperr"
	"github.com/starford/ley/internal/models"
)

// SearchResult represents one search hit.
type SearchResult struct {
	Source  string `json:"source"`
	Output  string `json:"output"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// UpsertPage inserts or replaces a page, its FTS entry and its links within a
// transaction. body is the page's plain text.
func (db *DB) UpsertPage(p models.Page, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO pages (source, output, title, author, date, checksum, body, built_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			output   = excluded.output,
			title    = excluded.title,
			author   = excluded.author,
			date     = excluded.date,
			checksum = excluded.checksum,
			body     = excluded.body,
			built_at = excluded.built_at
	`, p.Source, p.Output, p.Title, p.Author, p.Date, p.Checksum, body, p.BuiltAt)
	if err != nil {
		return fmt.Errorf("index: upsert page: %w", err)
	}

	if err := ftsUpsert(tx, p.Source, p.Title, body); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM links WHERE source = ?`, p.Source); err != nil {
		return fmt.Errorf("index: clear links: %w", err)
	}
	if len(p.Links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range p.Links {
			if _, err := stmt.Exec(p.Source, target); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeletePage removes a page, its FTS entry and its outgoing links.
func (db *DB) DeletePage(source string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, source)
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, source)
	_, _ = tx.Exec(`DELETE FROM pages WHERE source = ?`, source)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a source, or empty string if
// it was never built.
func (db *DB) GetChecksum(source string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM pages WHERE source = ?`, source).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums maps every recorded source to its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT source, checksum FROM pages`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var source, cs string
		if err := rows.Scan(&source, &cs); err != nil {
			return nil, err
		}
		out[source] = cs
	}
	return out, rows.Err()
}

// GetPage returns one page with its links. It returns apperr.ErrNotFound for
// unknown sources.
func (db *DB) GetPage(source string) (*models.Page, error) {
	var p models.Page
	err := db.conn.QueryRow(`
		SELECT source, output, title, author, date, checksum, built_at
		FROM pages WHERE source = ?
	`, source).Scan(&p.Source, &p.Output, &p.Title, &p.Author, &p.Date, &p.Checksum, &p.BuiltAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get page: %w", err)
	}

	rows, err := db.conn.Query(`SELECT target FROM links WHERE source = ? ORDER BY rowid`, source)
	if err != nil {
		return nil, fmt.Errorf("index: page links: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, err
		}
		p.Links = append(p.Links, target)
	}
	return &p, rows.Err()
}

// ListPages returns every page ordered by source path. Links are not loaded.
func (db *DB) ListPages() ([]models.Page, error) {
	rows, err := db.conn.Query(`
		SELECT source, output, title, author, date, checksum, built_at
		FROM pages ORDER BY source
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list pages: %w", err)
	}
	defer rows.Close()

	var out []models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.Source, &p.Output, &p.Title, &p.Author, &p.Date, &p.Checksum, &p.BuiltAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Backlinks returns the sources of all pages that link to target.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ? ORDER BY source`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
