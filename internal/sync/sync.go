package sync

import (
	"log/slog"
	"time"

	"plexmirror/internal/config"
	"plexmirror/internal/images"
	"plexmirror/internal/logging"
	"plexmirror/internal/services"
	"plexmirror/internal/services/plex"
	"plexmirror/internal/store"
)

// Shows and artists carry far fewer top-level items than movies, so
// their progress cadence stays fixed rather than configurable.
const aggregateProgressInterval = 10

// Engine runs mirror passes against one server and one database.
type Engine struct {
	cfg    *config.Config
	client plex.Client
	store  *store.Store
	images *images.Pipeline
	retry  services.RetryPolicy
	logger *slog.Logger
}

// New wires an engine from its collaborators. The retry policy is
// derived from the sync configuration.
func New(cfg *config.Config, client plex.Client, st *store.Store, pipeline *images.Pipeline, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		client: client,
		store:  st,
		images: pipeline,
		retry: services.RetryPolicy{
			Attempts: cfg.Sync.RetryAttempts,
			Backoff:  time.Duration(cfg.Sync.RetryBackoff) * time.Second,
		},
		logger: logging.WithComponent(logger, "sync"),
	}
}

// LibraryResult is the outcome of one library pass.
type LibraryResult struct {
	Library string
	Type    string
	Items   int
	Removed int64
	Images  images.Stats
	Err     error
}

// Summary reports a whole run, including libraries that failed. It is
// produced even when some passes were skipped.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Libraries []LibraryResult
}

// Items totals the processed leaf items across all libraries.
func (s Summary) Items() int {
	var total int
	for _, lib := range s.Libraries {
		total += lib.Items
	}
	return total
}

// Removed totals the rows flipped unavailable across all libraries.
func (s Summary) Removed() int64 {
	var total int64
	for _, lib := range s.Libraries {
		total += lib.Removed
	}
	return total
}

// Images totals the thumbnail pipeline stats across all libraries.
func (s Summary) Images() images.Stats {
	var total images.Stats
	for _, lib := range s.Libraries {
		total.Downloaded += lib.Images.Downloaded
		total.Failed += lib.Images.Failed
		total.Skipped += lib.Images.Skipped
	}
	return total
}

// Failed counts the libraries whose pass ended in an error.
func (s Summary) Failed() int {
	var count int
	for _, lib := range s.Libraries {
		if lib.Err != nil {
			count++
		}
	}
	return count
}
