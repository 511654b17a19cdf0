package images

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"plexmirror/internal/logging"
	"plexmirror/internal/services"
)

// Task is one thumbnail to mirror locally.
type Task struct {
	RatingKey int64
	Title     string
	ThumbPath string
	DestPath  string
}

// Stats summarizes one pipeline run.
type Stats struct {
	Downloaded int
	Failed     int
	Skipped    int
}

func (s *Stats) add(other Stats) {
	s.Downloaded += other.Downloaded
	s.Failed += other.Failed
	s.Skipped += other.Skipped
}

// Fetcher retrieves raw thumbnail bytes; the Plex client satisfies it.
type Fetcher interface {
	Thumbnail(ctx context.Context, thumbPath string) ([]byte, error)
}

// Transcoder normalizes fetched bytes before they hit disk.
type Transcoder interface {
	Transcode(data []byte) ([]byte, error)
}

// Pipeline downloads, normalizes, and stores thumbnails.
type Pipeline struct {
	fetcher    Fetcher
	transcoder Transcoder
	retry      services.RetryPolicy
	workers    int
	logger     *slog.Logger
}

// New builds a pipeline. workers caps the parallel pool; values below
// one fall back to one.
func New(fetcher Fetcher, transcoder Transcoder, retry services.RetryPolicy, workers int, logger *slog.Logger) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		fetcher:    fetcher,
		transcoder: transcoder,
		retry:      retry,
		workers:    workers,
		logger:     logging.WithComponent(logger, "images"),
	}
}

// Run executes the tasks, bounded by the worker ceiling when parallel.
// It returns aggregate stats; it fails only when ctx is done.
func (p *Pipeline) Run(ctx context.Context, tasks []Task, parallel bool) (Stats, error) {
	if len(tasks) == 0 {
		return Stats{}, nil
	}

	if !parallel {
		var stats Stats
		for _, task := range tasks {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			stats.add(p.runTask(ctx, task))
		}
		return stats, nil
	}

	results := make(chan Stats, len(tasks))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.workers)
	for _, task := range tasks {
		task := task
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results <- p.runTask(groupCtx, task)
			return nil
		})
	}
	err := group.Wait()
	close(results)

	var stats Stats
	for result := range results {
		stats.add(result)
	}
	return stats, err
}

func (p *Pipeline) runTask(ctx context.Context, task Task) Stats {
	if task.ThumbPath == "" || task.DestPath == "" {
		return Stats{Skipped: 1}
	}

	var data []byte
	err := p.retry.Do(ctx, func() error {
		fetched, fetchErr := p.fetcher.Thumbnail(ctx, task.ThumbPath)
		if fetchErr != nil {
			return fetchErr
		}
		data = fetched
		return nil
	})
	if err != nil {
		if services.IsMissingMedia(err) {
			p.logger.Debug("thumbnail gone upstream", "ratingKey", task.RatingKey, "title", task.Title)
			return Stats{Skipped: 1}
		}
		p.logger.Warn("thumbnail download failed", "ratingKey", task.RatingKey, "title", task.Title, "error", err)
		return Stats{Failed: 1}
	}

	if p.transcoder != nil {
		transcoded, err := p.transcoder.Transcode(data)
		if err != nil {
			p.logger.Warn("thumbnail transcode failed", "ratingKey", task.RatingKey, "title", task.Title, "error", err)
			return Stats{Failed: 1}
		}
		data = transcoded
	}

	if err := writeAtomic(task.DestPath, data); err != nil {
		p.logger.Warn("thumbnail write failed", "ratingKey", task.RatingKey, "path", task.DestPath, "error", err)
		return Stats{Failed: 1}
	}
	return Stats{Downloaded: 1}
}

// writeAtomic lands the file via tmp + rename so a crash mid-write
// never leaves a truncated image at the final path.
func writeAtomic(destPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".thumb-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
