package sync

import (
	"context"
)

// changeFilter decides whether a leaf's thumbnail needs refetching.
// A nil filter treats everything as changed. The filter never affects
// what gets persisted or reconciled, only the image schedule.
type changeFilter struct {
	known map[int64]string
}

func (f *changeFilter) changed(ratingKey int64, mediaHash string) bool {
	if f == nil {
		return true
	}
	previous, ok := f.known[ratingKey]
	return !ok || previous != mediaHash
}

// loadChangeFilter reads the stored fingerprints for one leaf table.
// Parallel runs refetch everything, so no filter is loaded. A load
// failure degrades to refetching everything rather than failing the
// pass.
func (e *Engine) loadChangeFilter(ctx context.Context, table string) *changeFilter {
	if e.cfg.Sync.Parallel || !e.cfg.Sync.DownloadImages {
		return nil
	}
	known, err := e.store.Fingerprints(ctx, table)
	if err != nil {
		e.logger.Warn("fingerprint load failed, refetching all thumbnails", "table", table, "error", err)
		return nil
	}
	return &changeFilter{known: known}
}
