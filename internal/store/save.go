package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"plexmirror/internal/catalog"
)

// MovieBatch carries one movie library pass: every extracted movie
// plus the seen set used for reconciliation.
type MovieBatch struct {
	Movies []catalog.Movie
	Seen   []int64
}

// ShowBatch carries one show library pass with per-level seen sets.
type ShowBatch struct {
	Shows        []catalog.Show
	Seasons      []catalog.Season
	Episodes     []catalog.Episode
	SeenShows    []int64
	SeenSeasons  []int64
	SeenEpisodes []int64
}

// MusicBatch carries one music library pass with per-level seen sets.
type MusicBatch struct {
	Artists     []catalog.Artist
	Albums      []catalog.Album
	Tracks      []catalog.Track
	SeenArtists []int64
	SeenAlbums  []int64
	SeenTracks  []int64
}

// SaveMovies persists a movie library pass in one transaction:
// upserts, reconciliation, and search index updates together. It
// returns the number of rows flipped unavailable.
func (s *Store) SaveMovies(ctx context.Context, batch MovieBatch) (int64, error) {
	var removed int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := timestamp()
		for i := range batch.Movies {
			if err := upsertMovie(ctx, tx, &batch.Movies[i], now); err != nil {
				return err
			}
			if s.ftsEnabled {
				movie := &batch.Movies[i]
				s.upsertSearchRow(ctx, tx, catalog.KindMovie, movie.RatingKey, movie.Title, movie.Summary, yearText(movie.Year))
			}
		}

		n, err := s.markUnavailableTx(ctx, tx, "movies", catalog.KindMovie, batch.Seen)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	return removed, err
}

// SaveShowLibrary persists a show library pass. Shows are written
// before seasons, seasons before episodes, so foreign keys always
// resolve.
func (s *Store) SaveShowLibrary(ctx context.Context, batch ShowBatch) (int64, error) {
	var removed int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := timestamp()
		for i := range batch.Shows {
			if err := upsertShow(ctx, tx, &batch.Shows[i], now); err != nil {
				return err
			}
			if s.ftsEnabled {
				show := &batch.Shows[i]
				s.upsertSearchRow(ctx, tx, catalog.KindShow, show.RatingKey, show.Title, show.Summary, "")
			}
		}
		for i := range batch.Seasons {
			if err := upsertSeason(ctx, tx, &batch.Seasons[i], now); err != nil {
				return err
			}
		}
		for i := range batch.Episodes {
			if err := upsertEpisode(ctx, tx, &batch.Episodes[i], now); err != nil {
				return err
			}
		}

		var total int64
		for _, level := range []struct {
			table string
			kind  string
			seen  []int64
		}{
			{"episodes", "", batch.SeenEpisodes},
			{"seasons", "", batch.SeenSeasons},
			{"tv_shows", catalog.KindShow, batch.SeenShows},
		} {
			n, err := s.markUnavailableTx(ctx, tx, level.table, level.kind, level.seen)
			if err != nil {
				return err
			}
			total += n
		}
		removed = total
		return nil
	})
	return removed, err
}

// SaveMusicLibrary persists a music library pass. Artists are written
// before albums, albums before tracks.
func (s *Store) SaveMusicLibrary(ctx context.Context, batch MusicBatch) (int64, error) {
	var removed int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := timestamp()
		for i := range batch.Artists {
			if err := upsertArtist(ctx, tx, &batch.Artists[i], now); err != nil {
				return err
			}
			if s.ftsEnabled {
				artist := &batch.Artists[i]
				s.upsertSearchRow(ctx, tx, catalog.KindArtist, artist.RatingKey, artist.Name, artist.Summary, "")
			}
		}
		for i := range batch.Albums {
			if err := upsertAlbum(ctx, tx, &batch.Albums[i], now); err != nil {
				return err
			}
		}
		for i := range batch.Tracks {
			if err := upsertTrack(ctx, tx, &batch.Tracks[i], now); err != nil {
				return err
			}
		}

		var total int64
		for _, level := range []struct {
			table string
			kind  string
			seen  []int64
		}{
			{"tracks", "", batch.SeenTracks},
			{"albums", "", batch.SeenAlbums},
			{"artists", catalog.KindArtist, batch.SeenArtists},
		} {
			n, err := s.markUnavailableTx(ctx, tx, level.table, level.kind, level.seen)
			if err != nil {
				return err
			}
			total += n
		}
		removed = total
		return nil
	})
	return removed, err
}

func yearText(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// markUnavailableTx flips rows absent from the seen set to
// unavailable. An empty seen set flips every available row: an empty
// library means total removal, not a no-op. kind, when non-empty,
// propagates the flip into the search index.
func (s *Store) markUnavailableTx(ctx context.Context, tx *sql.Tx, table, kind string, seen []int64) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if len(seen) == 0 {
		res, err = tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET available = 0 WHERE available = 1", table))
	} else {
		query := fmt.Sprintf(
			"UPDATE %s SET available = 0 WHERE ratingKey NOT IN (%s) AND available = 1",
			table, makePlaceholders(len(seen)))
		res, err = tx.ExecContext(ctx, query, keysToArgs(seen)...)
	}
	if err != nil {
		return 0, fmt.Errorf("mark unavailable %s: %w", table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected %s: %w", table, err)
	}
	if affected > 0 {
		s.logger.Info("marked items unavailable", "table", table, "count", affected)
	}

	if s.ftsEnabled && kind != "" {
		var ftsErr error
		if len(seen) == 0 {
			_, ftsErr = tx.ExecContext(ctx,
				"UPDATE search_fts SET available = '0' WHERE type = ?", kind)
		} else {
			query := fmt.Sprintf(
				"UPDATE search_fts SET available = '0' WHERE type = ? AND rowid NOT IN (%s)",
				makePlaceholders(len(seen)))
			args := append([]any{kind}, keysToArgs(seen)...)
			_, ftsErr = tx.ExecContext(ctx, query, args...)
		}
		if ftsErr != nil {
			// Search staleness is tolerable; the batch is not.
			s.logger.Warn("search index availability update failed", "table", table, "error", ftsErr)
		}
	}

	return affected, nil
}

// upsertSearchRow keeps the shadow index in step with an upsert.
// Rating keys are globally unique across Plex entity types, so they
// double as the FTS rowid and make replace semantics safe.
func (s *Store) upsertSearchRow(ctx context.Context, tx *sql.Tx, kind string, ratingKey int64, title, summary, year string) {
	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO search_fts(rowid, type, ratingKey, title, summary, year, available)
         VALUES (?, ?, ?, ?, ?, ?, '1')`,
		ratingKey, kind, ratingKey, title, summary, year)
	if err != nil {
		s.logger.Warn("search index upsert failed", "kind", kind, "ratingKey", ratingKey, "error", err)
	}
}

func upsertMovie(ctx context.Context, tx *sql.Tx, m *catalog.Movie, now string) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO movies (
            ratingKey, title, year, contentRating, duration, durationHuman,
            audioCodec, container, videoCodec, videoResolution,
            sizeBytes, sizeHuman, mediaHash,
            summary, tagline, genres, studio, directors, writers, producers, actors,
            originallyAvailableAt, rating, audienceRating,
            available, lastSeen
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
        ON CONFLICT(ratingKey) DO UPDATE SET
            title = excluded.title,
            year = excluded.year,
            contentRating = excluded.contentRating,
            duration = excluded.duration,
            durationHuman = excluded.durationHuman,
            audioCodec = excluded.audioCodec,
            container = excluded.container,
            videoCodec = excluded.videoCodec,
            videoResolution = excluded.videoResolution,
            sizeBytes = excluded.sizeBytes,
            sizeHuman = excluded.sizeHuman,
            mediaHash = excluded.mediaHash,
            summary = excluded.summary,
            tagline = excluded.tagline,
            genres = excluded.genres,
            studio = excluded.studio,
            directors = excluded.directors,
            writers = excluded.writers,
            producers = excluded.producers,
            actors = excluded.actors,
            originallyAvailableAt = excluded.originallyAvailableAt,
            rating = excluded.rating,
            audienceRating = excluded.audienceRating,
            available = 1,
            lastSeen = excluded.lastSeen`,
		m.RatingKey, m.Title, nullableInt(m.Year), nullableString(m.ContentRating),
		m.DurationMS, m.DurationHuman,
		nullableString(m.AudioCodec), nullableString(m.Container),
		nullableString(m.VideoCodec), nullableString(m.VideoResolution),
		m.SizeBytes, m.SizeHuman, m.MediaHash,
		nullableString(m.Summary), nullableString(m.Tagline), nullableString(m.Genres),
		nullableString(m.Studio), nullableString(m.Directors), nullableString(m.Writers),
		nullableString(m.Producers), nullableString(m.Actors),
		nullableString(m.OriginallyAvailableAt), nullableFloat(m.Rating), nullableFloat(m.AudienceRating),
		now)
	if err != nil {
		return fmt.Errorf("upsert movie %d: %w", m.RatingKey, err)
	}
	return nil
}

func upsertShow(ctx context.Context, tx *sql.Tx, show *catalog.Show, now string) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO tv_shows (
            ratingKey, title, contentRating,
            avgEpisodeDuration, avgEpisodeDurationHuman,
            seasonCount, showTotalEpisode, showSizeBytes, showSizeHuman,
            avgVideoResolutions, avgAudioCodecs, avgVideoCodecs, avgContainers,
            showYearRange,
            summary, genres, studio, actors, originallyAvailableAt, rating, audienceRating,
            available, lastSeen
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
        ON CONFLICT(ratingKey) DO UPDATE SET
            title = excluded.title,
            contentRating = excluded.contentRating,
            avgEpisodeDuration = excluded.avgEpisodeDuration,
            avgEpisodeDurationHuman = excluded.avgEpisodeDurationHuman,
            seasonCount = excluded.seasonCount,
            showTotalEpisode = excluded.showTotalEpisode,
            showSizeBytes = excluded.showSizeBytes,
            showSizeHuman = excluded.showSizeHuman,
            avgVideoResolutions = excluded.avgVideoResolutions,
            avgAudioCodecs = excluded.avgAudioCodecs,
            avgVideoCodecs = excluded.avgVideoCodecs,
            avgContainers = excluded.avgContainers,
            showYearRange = excluded.showYearRange,
            summary = excluded.summary,
            genres = excluded.genres,
            studio = excluded.studio,
            actors = excluded.actors,
            originallyAvailableAt = excluded.originallyAvailableAt,
            rating = excluded.rating,
            audienceRating = excluded.audienceRating,
            available = 1,
            lastSeen = excluded.lastSeen`,
		show.RatingKey, show.Title, nullableString(show.ContentRating),
		show.AvgEpisodeDurationMS, show.AvgEpisodeDuration,
		show.SeasonCount, show.EpisodeCount, show.SizeBytes, show.SizeHuman,
		nullableString(show.VideoResolutions), nullableString(show.AudioCodecs),
		nullableString(show.VideoCodecs), nullableString(show.Containers),
		nullableString(show.YearRange),
		nullableString(show.Summary), nullableString(show.Genres), nullableString(show.Studio),
		nullableString(show.Actors), nullableString(show.OriginallyAvailableAt),
		nullableFloat(show.Rating), nullableFloat(show.AudienceRating),
		now)
	if err != nil {
		return fmt.Errorf("upsert show %d: %w", show.RatingKey, err)
	}
	return nil
}

func upsertSeason(ctx context.Context, tx *sql.Tx, season *catalog.Season, now string) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO seasons (
            ratingKey, showRatingKey, seasonNumber, seasonTotalEpisode,
            avgSeasonEpisodeDuration, avgSeasonEpisodeDurationHuman,
            seasonSizeBytes, seasonSizeHuman,
            avgSeasonVideoResolution, avgSeasonAudioCodec, avgSeasonVideoCodec, avgSeasonContainer,
            yearRange, summary, title, originallyAvailableAt,
            available, lastSeen
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
        ON CONFLICT(ratingKey) DO UPDATE SET
            showRatingKey = excluded.showRatingKey,
            seasonNumber = excluded.seasonNumber,
            seasonTotalEpisode = excluded.seasonTotalEpisode,
            avgSeasonEpisodeDuration = excluded.avgSeasonEpisodeDuration,
            avgSeasonEpisodeDurationHuman = excluded.avgSeasonEpisodeDurationHuman,
            seasonSizeBytes = excluded.seasonSizeBytes,
            seasonSizeHuman = excluded.seasonSizeHuman,
            avgSeasonVideoResolution = excluded.avgSeasonVideoResolution,
            avgSeasonAudioCodec = excluded.avgSeasonAudioCodec,
            avgSeasonVideoCodec = excluded.avgSeasonVideoCodec,
            avgSeasonContainer = excluded.avgSeasonContainer,
            yearRange = excluded.yearRange,
            summary = excluded.summary,
            title = excluded.title,
            originallyAvailableAt = excluded.originallyAvailableAt,
            available = 1,
            lastSeen = excluded.lastSeen`,
		season.RatingKey, season.ShowRatingKey, season.SeasonNumber, season.EpisodeCount,
		season.AvgEpisodeDurationMS, season.AvgEpisodeDuration,
		season.SizeBytes, season.SizeHuman,
		nullableString(season.VideoResolutions), nullableString(season.AudioCodecs),
		nullableString(season.VideoCodecs), nullableString(season.Containers),
		nullableString(season.YearRange), nullableString(season.Summary),
		nullableString(season.Title), nullableString(season.OriginallyAvailableAt),
		now)
	if err != nil {
		return fmt.Errorf("upsert season %d: %w", season.RatingKey, err)
	}
	return nil
}

func upsertEpisode(ctx context.Context, tx *sql.Tx, ep *catalog.Episode, now string) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO episodes (
            ratingKey, seasonRatingKey, showRatingKey, episodeNumber,
            title, year, duration, durationHuman,
            audioCodec, container, videoCodec, videoResolution,
            sizeBytes, sizeHuman, mediaHash,
            summary, originallyAvailableAt, directors, writers, actors, rating, audienceRating,
            available, lastSeen
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
        ON CONFLICT(ratingKey) DO UPDATE SET
            seasonRatingKey = excluded.seasonRatingKey,
            showRatingKey = excluded.showRatingKey,
            episodeNumber = excluded.episodeNumber,
            title = excluded.title,
            year = excluded.year,
            duration = excluded.duration,
            durationHuman = excluded.durationHuman,
            audioCodec = excluded.audioCodec,
            container = excluded.container,
            videoCodec = excluded.videoCodec,
            videoResolution = excluded.videoResolution,
            sizeBytes = excluded.sizeBytes,
            sizeHuman = excluded.sizeHuman,
            mediaHash = excluded.mediaHash,
            summary = excluded.summary,
            originallyAvailableAt = excluded.originallyAvailableAt,
            directors = excluded.directors,
            writers = excluded.writers,
            actors = excluded.actors,
            rating = excluded.rating,
            audienceRating = excluded.audienceRating,
            available = 1,
            lastSeen = excluded.lastSeen`,
		ep.RatingKey, ep.SeasonRatingKey, ep.ShowRatingKey, ep.EpisodeNumber,
		ep.Title, nullableInt(ep.Year), ep.DurationMS, ep.DurationHuman,
		nullableString(ep.AudioCodec), nullableString(ep.Container),
		nullableString(ep.VideoCodec), nullableString(ep.VideoResolution),
		ep.SizeBytes, ep.SizeHuman, ep.MediaHash,
		nullableString(ep.Summary), nullableString(ep.OriginallyAvailableAt),
		nullableString(ep.Directors), nullableString(ep.Writers), nullableString(ep.Actors),
		nullableFloat(ep.Rating), nullableFloat(ep.AudienceRating),
		now)
	if err != nil {
		return fmt.Errorf("upsert episode %d: %w", ep.RatingKey, err)
	}
	return nil
}

func upsertArtist(ctx context.Context, tx *sql.Tx, artist *catalog.Artist, now string) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO artists (
            ratingKey, artistName, totalAlbums, totalTracks,
            totalSizeBytes, totalSizeHuman, yearRange,
            summary, genres,
            available, lastSeen
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
        ON CONFLICT(ratingKey) DO UPDATE SET
            artistName = excluded.artistName,
            totalAlbums = excluded.totalAlbums,
            totalTracks = excluded.totalTracks,
            totalSizeBytes = excluded.totalSizeBytes,
            totalSizeHuman = excluded.totalSizeHuman,
            yearRange = excluded.yearRange,
            summary = excluded.summary,
            genres = excluded.genres,
            available = 1,
            lastSeen = excluded.lastSeen`,
		artist.RatingKey, artist.Name, artist.AlbumCount, artist.TrackCount,
		artist.SizeBytes, artist.SizeHuman, nullableString(artist.YearRange),
		nullableString(artist.Summary), nullableString(artist.Genres),
		now)
	if err != nil {
		return fmt.Errorf("upsert artist %d: %w", artist.RatingKey, err)
	}
	return nil
}

func upsertAlbum(ctx context.Context, tx *sql.Tx, album *catalog.Album, now string) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO albums (
            ratingKey, artistRatingKey, title, year, tracks,
            albumSizeBytes, albumSizeHuman, albumDuration, albumDurationHuman,
            albumContainers,
            summary, genres, originallyAvailableAt, studio,
            available, lastSeen
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
        ON CONFLICT(ratingKey) DO UPDATE SET
            artistRatingKey = excluded.artistRatingKey,
            title = excluded.title,
            year = excluded.year,
            tracks = excluded.tracks,
            albumSizeBytes = excluded.albumSizeBytes,
            albumSizeHuman = excluded.albumSizeHuman,
            albumDuration = excluded.albumDuration,
            albumDurationHuman = excluded.albumDurationHuman,
            albumContainers = excluded.albumContainers,
            summary = excluded.summary,
            genres = excluded.genres,
            originallyAvailableAt = excluded.originallyAvailableAt,
            studio = excluded.studio,
            available = 1,
            lastSeen = excluded.lastSeen`,
		album.RatingKey, album.ArtistRatingKey, album.Title, nullableInt(album.Year), album.TrackCount,
		album.SizeBytes, album.SizeHuman, album.DurationMS, album.DurationHuman,
		nullableString(album.Containers),
		nullableString(album.Summary), nullableString(album.Genres),
		nullableString(album.OriginallyAvailableAt), nullableString(album.Studio),
		now)
	if err != nil {
		return fmt.Errorf("upsert album %d: %w", album.RatingKey, err)
	}
	return nil
}

func upsertTrack(ctx context.Context, tx *sql.Tx, track *catalog.Track, now string) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO tracks (
            ratingKey, albumRatingKey, artistRatingKey, title, trackNumber,
            duration, durationHuman, sizeBytes, sizeHuman, container, mediaHash,
            summary, originallyAvailableAt, genres,
            available, lastSeen
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
        ON CONFLICT(ratingKey) DO UPDATE SET
            albumRatingKey = excluded.albumRatingKey,
            artistRatingKey = excluded.artistRatingKey,
            title = excluded.title,
            trackNumber = excluded.trackNumber,
            duration = excluded.duration,
            durationHuman = excluded.durationHuman,
            sizeBytes = excluded.sizeBytes,
            sizeHuman = excluded.sizeHuman,
            container = excluded.container,
            mediaHash = excluded.mediaHash,
            summary = excluded.summary,
            originallyAvailableAt = excluded.originallyAvailableAt,
            genres = excluded.genres,
            available = 1,
            lastSeen = excluded.lastSeen`,
		track.RatingKey, track.AlbumRatingKey, track.ArtistRatingKey, track.Title, track.TrackNumber,
		track.DurationMS, track.DurationHuman, track.SizeBytes, track.SizeHuman,
		nullableString(track.Container), track.MediaHash,
		nullableString(track.Summary), nullableString(track.OriginallyAvailableAt),
		nullableString(track.Genres),
		now)
	if err != nil {
		return fmt.Errorf("upsert track %d: %w", track.RatingKey, err)
	}
	return nil
}
