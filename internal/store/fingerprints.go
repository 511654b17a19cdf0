package store

import (
	"context"
	"fmt"
)

// Leaf tables carrying a mediaHash fingerprint.
const (
	TableMovies   = "movies"
	TableEpisodes = "episodes"
	TableTracks   = "tracks"
)

// Fingerprints loads the mediaHash map for one leaf table in a single
// query. Only available rows participate; a row that disappeared and
// comes back is treated as changed so its artifacts refresh.
func (s *Store) Fingerprints(ctx context.Context, table string) (map[int64]string, error) {
	switch table {
	case TableMovies, TableEpisodes, TableTracks:
	default:
		return nil, fmt.Errorf("fingerprints: table %q has no mediaHash", table)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT ratingKey, mediaHash FROM %s WHERE available = 1 AND mediaHash IS NOT NULL", table))
	if err != nil {
		return nil, fmt.Errorf("query fingerprints %s: %w", table, err)
	}
	defer rows.Close()

	fingerprints := make(map[int64]string)
	for rows.Next() {
		var (
			key  int64
			hash string
		)
		if err := rows.Scan(&key, &hash); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		fingerprints[key] = hash
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints %s: %w", table, err)
	}
	return fingerprints, nil
}
