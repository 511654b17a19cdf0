package store

import (
	"context"
	"fmt"
	"strings"
)

// TableCounts is the availability breakdown of one catalog table.
type TableCounts struct {
	Table     string
	Available int64
	Total     int64
}

// Health summarizes database state for the status command.
type Health struct {
	SchemaVersion  int
	FTSEnabled     bool
	IntegrityCheck bool
	Tables         []TableCounts
}

var catalogTables = []string{
	"movies", "tv_shows", "seasons", "episodes", "artists", "albums", "tracks",
}

// CheckHealth reports schema version, per-table counts, and the result
// of SQLite's integrity check.
func (s *Store) CheckHealth(ctx context.Context) (Health, error) {
	health := Health{FTSEnabled: s.ftsEnabled}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return health, err
	}
	health.SchemaVersion = version

	for _, table := range catalogTables {
		var counts TableCounts
		counts.Table = table
		row := s.db.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT COUNT(1), COALESCE(SUM(available), 0) FROM %s", table))
		if err := row.Scan(&counts.Total, &counts.Available); err != nil {
			return health, fmt.Errorf("count %s: %w", table, err)
		}
		health.Tables = append(health.Tables, counts)
	}

	row := s.db.QueryRowContext(ctx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
