package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"plexmirror/internal/catalog"
	"plexmirror/internal/images"
	"plexmirror/internal/services/plex"
	"plexmirror/internal/store"
)

func (e *Engine) syncMovies(ctx context.Context, section plex.Library) LibraryResult {
	result := LibraryResult{Library: section.Title, Type: section.Type}

	filter := e.loadChangeFilter(ctx, store.TableMovies)
	items, err := e.fetchItems(ctx, section)
	if err != nil {
		result.Err = err
		return result
	}

	imageDir := e.cfg.ImageDirFor(catalog.KindMovie)
	var batch store.MovieBatch
	var tasks []images.Task
	for _, item := range items {
		movie, err := extractMovie(item)
		if err != nil {
			e.logSkippedLeaf("movie", item.Title, err)
			continue
		}

		batch.Movies = append(batch.Movies, movie)
		batch.Seen = append(batch.Seen, movie.RatingKey)
		result.Items++

		if e.wantImages() && item.Thumb != "" && filter.changed(movie.RatingKey, movie.MediaHash) {
			tasks = append(tasks, imageTask(movie.RatingKey, movie.Title, item.Thumb, imageDir))
		}

		if interval := e.cfg.Sync.ProgressInterval; interval > 0 && result.Items%interval == 0 {
			e.logger.Info("movie progress", "library", section.Title, "processed", result.Items, "total", len(items))
		}
	}

	stats, err := e.runImages(ctx, tasks)
	result.Images = stats
	if err != nil {
		result.Err = err
		return result
	}

	removed, err := e.store.SaveMovies(ctx, batch)
	if err != nil {
		result.Err = fmt.Errorf("save movie library %q: %w", section.Title, err)
		return result
	}
	result.Removed = removed
	return result
}

func imageTask(ratingKey int64, title, thumbPath, dir string) images.Task {
	return images.Task{
		RatingKey: ratingKey,
		Title:     title,
		ThumbPath: thumbPath,
		DestPath:  filepath.Join(dir, strconv.FormatInt(ratingKey, 10)+".thumb.jpg"),
	}
}
