package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"plexmirror/internal/services"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	data    map[string][]byte
	errs    map[string]error
	inUse   atomic.Int32
	maxSeen atomic.Int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		calls: make(map[string]int),
		data:  make(map[string][]byte),
		errs:  make(map[string]error),
	}
}

func (f *fakeFetcher) Thumbnail(ctx context.Context, thumbPath string) ([]byte, error) {
	current := f.inUse.Add(1)
	defer f.inUse.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if current <= seen || f.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[thumbPath]++
	if err, ok := f.errs[thumbPath]; ok {
		return nil, err
	}
	if data, ok := f.data[thumbPath]; ok {
		return data, nil
	}
	return []byte("image-bytes"), nil
}

type passthroughTranscoder struct{}

func (passthroughTranscoder) Transcode(data []byte) ([]byte, error) { return data, nil }

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunSequentialDownloadsAndWrites(t *testing.T) {
	dir := t.TempDir()
	fetcher := newFakeFetcher()
	pipeline := New(fetcher, passthroughTranscoder{}, services.RetryPolicy{Attempts: 1}, 4, discardLogger())

	tasks := []Task{
		{RatingKey: 1, Title: "One", ThumbPath: "/thumb/1", DestPath: filepath.Join(dir, "1.thumb.jpg")},
		{RatingKey: 2, Title: "Two", ThumbPath: "/thumb/2", DestPath: filepath.Join(dir, "2.thumb.jpg")},
	}
	stats, err := pipeline.Run(context.Background(), tasks, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Downloaded != 2 || stats.Failed != 0 || stats.Skipped != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	for _, task := range tasks {
		data, err := os.ReadFile(task.DestPath)
		if err != nil {
			t.Fatalf("read %s: %v", task.DestPath, err)
		}
		if string(data) != "image-bytes" {
			t.Fatalf("unexpected file contents: %q", data)
		}
	}
}

func TestRunCountsFailuresWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	fetcher := newFakeFetcher()
	fetcher.errs["/thumb/bad"] = services.Wrap(services.ErrPermanent, "plex", "thumbnail", "boom", nil)
	pipeline := New(fetcher, passthroughTranscoder{}, services.RetryPolicy{Attempts: 1}, 4, discardLogger())

	tasks := []Task{
		{RatingKey: 1, ThumbPath: "/thumb/bad", DestPath: filepath.Join(dir, "bad.jpg")},
		{RatingKey: 2, ThumbPath: "/thumb/ok", DestPath: filepath.Join(dir, "ok.jpg")},
	}
	stats, err := pipeline.Run(context.Background(), tasks, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Downloaded != 1 || stats.Failed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRunSkipsMissingThumbAndGoneUpstream(t *testing.T) {
	dir := t.TempDir()
	fetcher := newFakeFetcher()
	fetcher.errs["/thumb/gone"] = services.Wrap(services.ErrMissingMedia, "plex", "thumbnail", "/thumb/gone", nil)
	pipeline := New(fetcher, passthroughTranscoder{}, services.RetryPolicy{Attempts: 3}, 4, discardLogger())

	tasks := []Task{
		{RatingKey: 1, ThumbPath: "", DestPath: filepath.Join(dir, "none.jpg")},
		{RatingKey: 2, ThumbPath: "/thumb/gone", DestPath: filepath.Join(dir, "gone.jpg")},
	}
	stats, err := pipeline.Run(context.Background(), tasks, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Skipped != 2 || stats.Downloaded != 0 || stats.Failed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if fetcher.calls["/thumb/gone"] != 1 {
		t.Fatalf("missing media must not retry, got %d calls", fetcher.calls["/thumb/gone"])
	}
}

func TestRunRetriesTransientFetches(t *testing.T) {
	dir := t.TempDir()
	fetcher := newFakeFetcher()
	attempts := 0
	flaky := &flakyFetcher{inner: fetcher, failFirst: 2, attempts: &attempts}
	pipeline := New(flaky, passthroughTranscoder{}, services.RetryPolicy{Attempts: 3}, 1, discardLogger())

	stats, err := pipeline.Run(context.Background(), []Task{
		{RatingKey: 1, ThumbPath: "/thumb/1", DestPath: filepath.Join(dir, "1.jpg")},
	}, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Downloaded != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

type flakyFetcher struct {
	inner     Fetcher
	failFirst int
	attempts  *int
}

func (f *flakyFetcher) Thumbnail(ctx context.Context, thumbPath string) ([]byte, error) {
	*f.attempts++
	if *f.attempts <= f.failFirst {
		return nil, services.Wrap(services.ErrTransient, "plex", "thumbnail", "timeout", errors.New("timeout"))
	}
	return f.inner.Thumbnail(ctx, thumbPath)
}

func TestRunParallelRespectsWorkerCeiling(t *testing.T) {
	dir := t.TempDir()
	fetcher := newFakeFetcher()
	pipeline := New(fetcher, passthroughTranscoder{}, services.RetryPolicy{Attempts: 1}, 3, discardLogger())

	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = Task{
			RatingKey: int64(i),
			ThumbPath: fmt.Sprintf("/thumb/%d", i),
			DestPath:  filepath.Join(dir, fmt.Sprintf("%d.jpg", i)),
		}
	}
	stats, err := pipeline.Run(context.Background(), tasks, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Downloaded != 20 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if max := fetcher.maxSeen.Load(); max > 3 {
		t.Fatalf("worker ceiling exceeded: %d concurrent fetches", max)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pipeline := New(newFakeFetcher(), passthroughTranscoder{}, services.RetryPolicy{Attempts: 1}, 2, discardLogger())
	_, err := pipeline.Run(ctx, []Task{{RatingKey: 1, ThumbPath: "/t", DestPath: filepath.Join(t.TempDir(), "x.jpg")}}, false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
