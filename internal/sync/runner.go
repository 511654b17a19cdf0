package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"plexmirror/internal/images"
	"plexmirror/internal/services"
	"plexmirror/internal/services/plex"
)

// Run executes one full mirror pass over the configured libraries.
// Per-library failures are recorded in the summary and do not stop the
// run; only the initial section listing and context cancellation are
// fatal. The summary is returned even on error.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger := e.logger.With("runID", summary.RunID)
	logger.Info("sync started", "libraries", e.cfg.Plex.Libraries, "parallel", e.cfg.Sync.Parallel)

	var sections []plex.Library
	err := e.retry.Do(ctx, func() error {
		listed, listErr := e.client.Libraries(ctx)
		if listErr != nil {
			return listErr
		}
		sections = listed
		return nil
	})
	if err != nil {
		summary.Duration = time.Since(summary.StartedAt)
		return summary, fmt.Errorf("list library sections: %w", err)
	}

	byTitle := make(map[string]plex.Library, len(sections))
	for _, section := range sections {
		byTitle[section.Title] = section
	}

	for _, name := range e.cfg.Plex.Libraries {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(summary.StartedAt)
			return summary, err
		}

		section, ok := byTitle[name]
		if !ok {
			logger.Warn("configured library not found on server", "library", name)
			summary.Libraries = append(summary.Libraries, LibraryResult{
				Library: name,
				Err:     fmt.Errorf("library %q not found on server", name),
			})
			continue
		}

		logger.Info("processing library", "library", section.Title, "type", section.Type)
		var result LibraryResult
		switch section.Type {
		case "movie":
			result = e.syncMovies(ctx, section)
		case "show":
			result = e.syncShows(ctx, section)
		case "artist":
			result = e.syncMusic(ctx, section)
		default:
			logger.Warn("unsupported library type", "library", section.Title, "type", section.Type)
			result = LibraryResult{
				Library: section.Title,
				Type:    section.Type,
				Err:     fmt.Errorf("unsupported library type %q", section.Type),
			}
		}

		if result.Err != nil {
			if ctx.Err() != nil {
				summary.Libraries = append(summary.Libraries, result)
				summary.Duration = time.Since(summary.StartedAt)
				return summary, ctx.Err()
			}
			logger.Error("library pass failed", "library", section.Title, "error", result.Err)
		} else {
			logger.Info("library pass complete",
				"library", section.Title,
				"items", result.Items,
				"removed", result.Removed,
				"imagesDownloaded", result.Images.Downloaded,
				"imagesFailed", result.Images.Failed)
		}
		summary.Libraries = append(summary.Libraries, result)
	}

	if err := e.store.Optimize(ctx); err != nil {
		logger.Warn("database optimize failed", "error", err)
	}

	summary.Duration = time.Since(summary.StartedAt)
	logger.Info("sync finished",
		"items", summary.Items(),
		"removed", summary.Removed(),
		"failedLibraries", summary.Failed(),
		"duration", summary.Duration.Round(time.Millisecond))
	return summary, nil
}

// fetchItems lists a section's top-level items with retries. Failure
// here skips the library without touching its rows.
func (e *Engine) fetchItems(ctx context.Context, section plex.Library) ([]plex.Item, error) {
	var items []plex.Item
	err := e.retry.Do(ctx, func() error {
		fetched, fetchErr := e.client.Items(ctx, section.Key)
		if fetchErr != nil {
			return fetchErr
		}
		items = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch items of library %q: %w", section.Title, err)
	}
	return items, nil
}

// fetchChildren lists an item's children with retries.
func (e *Engine) fetchChildren(ctx context.Context, ratingKey, what string) ([]plex.Item, error) {
	var children []plex.Item
	err := e.retry.Do(ctx, func() error {
		fetched, fetchErr := e.client.Children(ctx, ratingKey)
		if fetchErr != nil {
			return fetchErr
		}
		children = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", what, err)
	}
	return children, nil
}

func (e *Engine) wantImages() bool {
	return e.cfg.Sync.DownloadImages && e.images != nil
}

func (e *Engine) runImages(ctx context.Context, tasks []images.Task) (images.Stats, error) {
	if !e.wantImages() || len(tasks) == 0 {
		return images.Stats{}, nil
	}
	return e.images.Run(ctx, tasks, e.cfg.Sync.Parallel)
}

func (e *Engine) logSkippedLeaf(kind, title string, err error) {
	if services.IsMissingMedia(err) {
		e.logger.Debug("no media files, skipping", "kind", kind, "title", title)
		return
	}
	e.logger.Warn("leaf skipped", "kind", kind, "title", title, "error", err)
}
