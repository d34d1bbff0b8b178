//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
			source UNINDEXED,
			title,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, source, title, body string) error {
	_, _ = tx.Exec(`DELETE FROM pages_fts WHERE source = ?`, source)
	_, err := tx.Exec(`INSERT INTO pages_fts (source, title, body) VALUES (?, ?, ?)`, source, title, body)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, source string) {
	_, _ = tx.Exec(`DELETE FROM pages_fts WHERE source = ?`, source)
}

// Search performs an FTS5 full-text search and returns matching pages with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.source,
		       p.output,
		       f.title,
		       snippet(pages_fts, 2, '<b>', '</b>', '...', 64)
		FROM pages_fts f
		JOIN pages p ON p.source = f.source
		WHERE pages_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Source, &r.Output, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
