package testsupport

import (
	"path/filepath"
	"testing"

	"plexmirror/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Plex.URL = "http://plex.test:32400"
	cfg.Plex.Token = "test-token"
	cfg.Paths.DatabasePath = filepath.Join(base, "catalog.db")
	cfg.Paths.ImageDir = filepath.Join(base, "images")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Sync.RetryBackoff = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithLibraries overrides the mirrored library names.
func WithLibraries(names ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Plex.Libraries = names
	}
}

// WithSequentialSync disables the parallel image pipeline so the
// change filter is active.
func WithSequentialSync() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sync.Parallel = false
	}
}
