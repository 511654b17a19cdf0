package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// SearchResult is one row from the shadow search index.
type SearchResult struct {
	Kind      string
	RatingKey int64
	Title     string
	Summary   string
	Year      string
	Available bool
}

var searchFolder = cases.Fold()

// Search queries the catalog by title and summary. FTS5 MATCH is used
// when the shadow index exists; otherwise the scan falls back to LIKE
// over the searchable tables. Results include unavailable rows so
// callers can surface history; Available tells them apart.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	if s.ftsEnabled {
		return s.searchFTS(ctx, query, limit)
	}
	return s.searchLike(ctx, query, limit)
}

func (s *Store) searchFTS(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT type, ratingKey, title, summary, year, available
        FROM search_fts
        WHERE search_fts MATCH ?
        ORDER BY rank
        LIMIT ?`,
		ftsQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search fts: %w", err)
	}
	defer rows.Close()
	return scanSearchRows(rows)
}

// ftsQuery quotes each term so user input never reaches the MATCH
// grammar as syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(searchFolder.String(query))
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(term, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

func (s *Store) searchLike(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	pattern := "%" + searchFolder.String(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
        SELECT 'movie' AS type, ratingKey, title, COALESCE(summary, ''), COALESCE(CAST(year AS TEXT), ''), available
        FROM movies
        WHERE LOWER(title) LIKE ? OR LOWER(COALESCE(summary, '')) LIKE ?
        UNION ALL
        SELECT 'show', ratingKey, title, COALESCE(summary, ''), '', available
        FROM tv_shows
        WHERE LOWER(title) LIKE ? OR LOWER(COALESCE(summary, '')) LIKE ?
        UNION ALL
        SELECT 'artist', ratingKey, artistName, COALESCE(summary, ''), '', available
        FROM artists
        WHERE LOWER(artistName) LIKE ? OR LOWER(COALESCE(summary, '')) LIKE ?
        ORDER BY title
        LIMIT ?`,
		pattern, pattern, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search like: %w", err)
	}
	defer rows.Close()
	return scanSearchRows(rows)
}

func scanSearchRows(rows *sql.Rows) ([]SearchResult, error) {
	var results []SearchResult
	for rows.Next() {
		var (
			result    SearchResult
			available string
		)
		if err := rows.Scan(&result.Kind, &result.RatingKey, &result.Title, &result.Summary, &result.Year, &available); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		result.Available = available == "1"
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return results, nil
}
