package sync

import (
	"context"
	"fmt"

	"plexmirror/internal/catalog"
	"plexmirror/internal/images"
	"plexmirror/internal/services/plex"
	"plexmirror/internal/store"
)

// artistPass is the collected output of one artist subtree.
type artistPass struct {
	artist     catalog.Artist
	albums     []catalog.Album
	tracks     []catalog.Track
	seenAlbums []int64
	seenTracks []int64
	tasks      []images.Task
}

func (e *Engine) syncMusic(ctx context.Context, section plex.Library) LibraryResult {
	result := LibraryResult{Library: section.Title, Type: section.Type}

	artists, err := e.fetchItems(ctx, section)
	if err != nil {
		result.Err = err
		return result
	}

	var batch store.MusicBatch
	var tasks []images.Task
	var processed int
	for _, item := range artists {
		artistKey, err := parseRatingKey(item.RatingKey)
		if err != nil {
			e.logger.Warn("artist skipped", "name", item.Title, "error", err)
			continue
		}
		batch.SeenArtists = append(batch.SeenArtists, artistKey)

		pass, err := e.processArtist(ctx, item, artistKey)
		if err != nil {
			if ctx.Err() != nil {
				result.Err = ctx.Err()
				return result
			}
			e.logger.Warn("artist subtree skipped", "name", item.Title, "error", err)
			continue
		}

		batch.Artists = append(batch.Artists, pass.artist)
		batch.Albums = append(batch.Albums, pass.albums...)
		batch.Tracks = append(batch.Tracks, pass.tracks...)
		batch.SeenAlbums = append(batch.SeenAlbums, pass.seenAlbums...)
		batch.SeenTracks = append(batch.SeenTracks, pass.seenTracks...)
		tasks = append(tasks, pass.tasks...)
		result.Items += len(pass.tracks)

		processed++
		if processed%aggregateProgressInterval == 0 {
			e.logger.Info("artist progress", "library", section.Title, "processed", processed, "total", len(artists))
		}
	}

	stats, err := e.runImages(ctx, tasks)
	result.Images = stats
	if err != nil {
		result.Err = err
		return result
	}

	removed, err := e.store.SaveMusicLibrary(ctx, batch)
	if err != nil {
		result.Err = fmt.Errorf("save music library %q: %w", section.Title, err)
		return result
	}
	result.Removed = removed
	return result
}

func (e *Engine) processArtist(ctx context.Context, item plex.Item, artistKey int64) (artistPass, error) {
	var pass artistPass
	imageDir := e.cfg.ImageDirFor(catalog.KindArtist)

	albums, err := e.fetchChildren(ctx, item.RatingKey, "albums of "+item.Title)
	if err != nil {
		return pass, err
	}

	for _, albumItem := range albums {
		albumKey, err := parseRatingKey(albumItem.RatingKey)
		if err != nil {
			e.logger.Warn("album skipped", "artist", item.Title, "album", albumItem.Title, "error", err)
			continue
		}

		trackItems, err := e.fetchChildren(ctx, albumItem.RatingKey,
			fmt.Sprintf("tracks of %s / %s", item.Title, albumItem.Title))
		if err != nil {
			return pass, err
		}

		var tracks []catalog.Track
		for _, trackItem := range trackItems {
			track, err := extractTrack(trackItem, albumKey, artistKey, albumItem.Year)
			if err != nil {
				e.logSkippedLeaf("track", trackItem.Title, err)
				continue
			}
			tracks = append(tracks, track)
			pass.seenTracks = append(pass.seenTracks, track.RatingKey)
		}

		pass.albums = append(pass.albums, aggregateAlbum(albumItem, artistKey, albumKey, tracks))
		pass.seenAlbums = append(pass.seenAlbums, albumKey)
		pass.tracks = append(pass.tracks, tracks...)

		if e.wantImages() && albumItem.Thumb != "" {
			pass.tasks = append(pass.tasks, imageTask(albumKey, albumItem.Title, albumItem.Thumb, imageDir))
		}
	}

	pass.artist = aggregateArtist(item, artistKey, pass.albums)
	if e.wantImages() && item.Thumb != "" {
		pass.tasks = append(pass.tasks, imageTask(artistKey, item.Title, item.Thumb, imageDir))
	}
	return pass, nil
}
