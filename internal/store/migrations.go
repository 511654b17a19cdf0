package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ftsMigrationVersion is applied in Go rather than SQL because FTS5 is
// an optional SQLite capability the build may lack.
const ftsMigrationVersion = "0003_search_index"

type migration struct {
	version string
	sql     string
	apply   func(ctx context.Context, tx *sql.Tx) error
}

func (s *Store) loadMigrations() ([]migration, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	migrations := make([]migration, 0, len(names)+1)
	for _, name := range names {
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, migration{
			version: strings.TrimSuffix(name, ".sql"),
			sql:     string(data),
		})
	}

	migrations = append(migrations, migration{
		version: ftsMigrationVersion,
		apply:   s.applySearchIndex,
	})
	return migrations, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	migrations, err := s.loadMigrations()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TEXT DEFAULT CURRENT_TIMESTAMP)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, migration := range migrations {
		var count int
		row := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", migration.version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if migration.apply != nil {
			if err := migration.apply(ctx, tx); err != nil {
				return fmt.Errorf("apply migration %s: %w", migration.version, err)
			}
		} else if _, err := tx.ExecContext(ctx, migration.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", migration.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", migration.version); err != nil {
			return fmt.Errorf("record migration %s: %w", migration.version, err)
		}
		s.logger.Info("applied migration", "version", migration.version)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// applySearchIndex creates and backfills the FTS5 shadow search index.
// When the SQLite build lacks FTS5 the migration logs, records itself
// applied, and the store serves search through the LIKE fallback.
func (s *Store) applySearchIndex(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE VIRTUAL TABLE IF NOT EXISTS search_fts USING fts5(
        type,
        ratingKey UNINDEXED,
        title,
        summary,
        year UNINDEXED,
        available UNINDEXED
    )`)
	if err != nil {
		s.logger.Warn("fts5 unavailable, search will use LIKE fallback", "error", err)
		return nil
	}

	backfills := []string{
		`INSERT INTO search_fts(rowid, type, ratingKey, title, summary, year, available)
         SELECT ratingKey, 'movie', ratingKey, title, COALESCE(summary, ''), COALESCE(year, ''), available
         FROM movies`,
		`INSERT INTO search_fts(rowid, type, ratingKey, title, summary, year, available)
         SELECT ratingKey, 'show', ratingKey, title, COALESCE(summary, ''), '', available
         FROM tv_shows`,
		`INSERT INTO search_fts(rowid, type, ratingKey, title, summary, year, available)
         SELECT ratingKey, 'artist', ratingKey, artistName, COALESCE(summary, ''), '', available
         FROM artists`,
	}
	for _, stmt := range backfills {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("backfill search index: %w", err)
		}
	}
	return nil
}

// SchemaVersion reports how many migrations have been applied.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations")
	var version int
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("scan schema version: %w", err)
	}
	return version, nil
}
