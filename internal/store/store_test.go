package store_test

import (
	"context"
	"os"
	"testing"

	"plexmirror/internal/catalog"
	"plexmirror/internal/store"
	"plexmirror/internal/testsupport"
)

func movie(key int64, title string, hash string) catalog.Movie {
	return catalog.Movie{
		RatingKey:       key,
		Title:           title,
		Year:            1995,
		DurationMS:      10200000,
		DurationHuman:   "170 mins",
		AudioCodec:      "DCA",
		Container:       "mkv",
		VideoCodec:      "H264",
		VideoResolution: "1080p",
		SizeBytes:       9000000000,
		SizeHuman:       "9.00 GB",
		MediaHash:       hash,
		Summary:         "a heist goes wrong",
		Genres:          "Crime, Drama",
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first := testsupport.MustOpenStore(t, cfg)
	version, err := first.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != 3 {
		t.Fatalf("expected 3 applied migrations, got %d", version)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := testsupport.MustOpenStore(t, cfg)
	version, err = second.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion after reopen: %v", err)
	}
	if version != 3 {
		t.Fatalf("expected 3 applied migrations after reopen, got %d", version)
	}
}

func TestSaveMoviesReconcilesSeenSet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	_, err := st.SaveMovies(ctx, store.MovieBatch{
		Movies: []catalog.Movie{movie(1, "One", "h1"), movie(2, "Two", "h2"), movie(3, "Three", "h3")},
		Seen:   []int64{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}

	removed, err := st.SaveMovies(ctx, store.MovieBatch{
		Movies: []catalog.Movie{movie(2, "Two", "h2"), movie(3, "Three", "h3"), movie(4, "Four", "h4")},
		Seen:   []int64{2, 3, 4},
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 row flipped unavailable, got %d", removed)
	}

	fingerprints, err := st.Fingerprints(ctx, store.TableMovies)
	if err != nil {
		t.Fatalf("Fingerprints: %v", err)
	}
	if len(fingerprints) != 3 {
		t.Fatalf("expected 3 available fingerprints, got %d", len(fingerprints))
	}
	if _, ok := fingerprints[1]; ok {
		t.Fatal("unavailable movie must not appear in fingerprint map")
	}
	if fingerprints[4] != "h4" {
		t.Fatalf("unexpected fingerprint for new movie: %q", fingerprints[4])
	}
}

func TestSaveMoviesEmptySeenFlipsAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	_, err := st.SaveMovies(ctx, store.MovieBatch{
		Movies: []catalog.Movie{movie(1, "One", "h1"), movie(2, "Two", "h2")},
		Seen:   []int64{1, 2},
	})
	if err != nil {
		t.Fatalf("seed save: %v", err)
	}

	removed, err := st.SaveMovies(ctx, store.MovieBatch{})
	if err != nil {
		t.Fatalf("empty save: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected all rows flipped, got %d", removed)
	}

	fingerprints, err := st.Fingerprints(ctx, store.TableMovies)
	if err != nil {
		t.Fatalf("Fingerprints: %v", err)
	}
	if len(fingerprints) != 0 {
		t.Fatalf("expected no available rows, got %d", len(fingerprints))
	}
}

func TestReappearingMovieFlipsBackAvailable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.SaveMovies(ctx, store.MovieBatch{
		Movies: []catalog.Movie{movie(1, "One", "h1")},
		Seen:   []int64{1},
	}); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	if _, err := st.SaveMovies(ctx, store.MovieBatch{}); err != nil {
		t.Fatalf("empty save: %v", err)
	}
	if _, err := st.SaveMovies(ctx, store.MovieBatch{
		Movies: []catalog.Movie{movie(1, "One", "h1")},
		Seen:   []int64{1},
	}); err != nil {
		t.Fatalf("restore save: %v", err)
	}

	fingerprints, err := st.Fingerprints(ctx, store.TableMovies)
	if err != nil {
		t.Fatalf("Fingerprints: %v", err)
	}
	if fingerprints[1] != "h1" {
		t.Fatal("reappearing movie should be available again")
	}
}

func TestSaveShowLibraryWritesHierarchy(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	batch := store.ShowBatch{
		Shows: []catalog.Show{{
			RatingKey: 100, Title: "The Wire",
			SeasonCount: 1, EpisodeCount: 2,
			AvgEpisodeDurationMS: 3600000, AvgEpisodeDuration: "60 mins",
			SizeBytes: 4000000000, SizeHuman: "4.00 GB",
			YearRange: "2002",
		}},
		Seasons: []catalog.Season{{
			RatingKey: 110, ShowRatingKey: 100, SeasonNumber: 1,
			EpisodeCount: 2, AvgEpisodeDurationMS: 3600000, AvgEpisodeDuration: "60 mins",
			SizeBytes: 4000000000, SizeHuman: "4.00 GB", YearRange: "2002",
		}},
		Episodes: []catalog.Episode{
			{RatingKey: 111, SeasonRatingKey: 110, ShowRatingKey: 100, EpisodeNumber: 1, Title: "The Target", Year: 2002, MediaHash: "e1"},
			{RatingKey: 112, SeasonRatingKey: 110, ShowRatingKey: 100, EpisodeNumber: 2, Title: "The Detail", Year: 2002, MediaHash: "e2"},
		},
		SeenShows:    []int64{100},
		SeenSeasons:  []int64{110},
		SeenEpisodes: []int64{111, 112},
	}
	if _, err := st.SaveShowLibrary(ctx, batch); err != nil {
		t.Fatalf("SaveShowLibrary: %v", err)
	}

	fingerprints, err := st.Fingerprints(ctx, store.TableEpisodes)
	if err != nil {
		t.Fatalf("Fingerprints: %v", err)
	}
	if len(fingerprints) != 2 {
		t.Fatalf("expected 2 episode fingerprints, got %d", len(fingerprints))
	}

	// Re-saving the same batch must not cascade-delete children.
	if _, err := st.SaveShowLibrary(ctx, batch); err != nil {
		t.Fatalf("second SaveShowLibrary: %v", err)
	}
	fingerprints, err = st.Fingerprints(ctx, store.TableEpisodes)
	if err != nil {
		t.Fatalf("Fingerprints after re-save: %v", err)
	}
	if len(fingerprints) != 2 {
		t.Fatalf("expected episodes to survive show upsert, got %d", len(fingerprints))
	}
}

func TestSaveMusicLibraryReconcilesPerLevel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seed := store.MusicBatch{
		Artists: []catalog.Artist{{RatingKey: 200, Name: "Portishead", AlbumCount: 1, TrackCount: 2}},
		Albums:  []catalog.Album{{RatingKey: 210, ArtistRatingKey: 200, Title: "Dummy", Year: 1994, TrackCount: 2}},
		Tracks: []catalog.Track{
			{RatingKey: 211, AlbumRatingKey: 210, ArtistRatingKey: 200, Title: "Mysterons", TrackNumber: 1, MediaHash: "t1"},
			{RatingKey: 212, AlbumRatingKey: 210, ArtistRatingKey: 200, Title: "Sour Times", TrackNumber: 2, MediaHash: "t2"},
		},
		SeenArtists: []int64{200},
		SeenAlbums:  []int64{210},
		SeenTracks:  []int64{211, 212},
	}
	if _, err := st.SaveMusicLibrary(ctx, seed); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	// One track disappears; artist and album stay.
	next := seed
	next.Tracks = seed.Tracks[:1]
	next.SeenTracks = []int64{211}
	removed, err := st.SaveMusicLibrary(ctx, next)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 track flipped, got %d", removed)
	}

	fingerprints, err := st.Fingerprints(ctx, store.TableTracks)
	if err != nil {
		t.Fatalf("Fingerprints: %v", err)
	}
	if len(fingerprints) != 1 || fingerprints[211] != "t1" {
		t.Fatalf("unexpected track fingerprints: %v", fingerprints)
	}
}

func TestSearchFindsAndFlagsAvailability(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if !st.FTSEnabled() {
		t.Skip("sqlite build lacks FTS5")
	}

	if _, err := st.SaveMovies(ctx, store.MovieBatch{
		Movies: []catalog.Movie{movie(1, "Heat", "h1"), movie(2, "Collateral", "h2")},
		Seen:   []int64{1, 2},
	}); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	results, err := st.Search(ctx, "heat", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Heat" || !results[0].Available {
		t.Fatalf("unexpected results: %+v", results)
	}

	// Flip everything unavailable and search again.
	if _, err := st.SaveMovies(ctx, store.MovieBatch{}); err != nil {
		t.Fatalf("empty save: %v", err)
	}
	results, err = st.Search(ctx, "heat", 10)
	if err != nil {
		t.Fatalf("Search after flip: %v", err)
	}
	if len(results) != 1 || results[0].Available {
		t.Fatalf("expected unavailable result, got %+v", results)
	}
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	results, err := st.Search(context.Background(), "   ", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}

func TestCheckHealthReportsCountsAndIntegrity(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.SaveMovies(ctx, store.MovieBatch{
		Movies: []catalog.Movie{movie(1, "One", "h1"), movie(2, "Two", "h2")},
		Seen:   []int64{1},
	}); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	health, err := st.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if health.SchemaVersion != 3 {
		t.Fatalf("unexpected schema version: %d", health.SchemaVersion)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
	for _, counts := range health.Tables {
		if counts.Table != "movies" {
			continue
		}
		if counts.Total != 2 || counts.Available != 1 {
			t.Fatalf("unexpected movie counts: %+v", counts)
		}
	}
}

func TestOptimizeRunsAfterSave(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.SaveMovies(ctx, store.MovieBatch{
		Movies: []catalog.Movie{movie(1, "One", "h1")},
		Seen:   []int64{1},
	}); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	if err := st.Optimize(ctx); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
}

func TestDestroyRemovesDatabaseFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	if _, err := st.SaveMovies(context.Background(), store.MovieBatch{
		Movies: []catalog.Movie{movie(1, "One", "h1")},
		Seen:   []int64{1},
	}); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := store.Destroy(cfg.Paths.DatabasePath); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.DatabasePath); !os.IsNotExist(err) {
		t.Fatal("expected database file removed")
	}

	// A fresh open starts from migration zero.
	st = testsupport.MustOpenStore(t, cfg)
	fingerprints, err := st.Fingerprints(context.Background(), store.TableMovies)
	if err != nil {
		t.Fatalf("Fingerprints: %v", err)
	}
	if len(fingerprints) != 0 {
		t.Fatalf("expected empty store after destroy, got %d rows", len(fingerprints))
	}
}

func TestFingerprintsRejectsUnknownTable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.Fingerprints(context.Background(), "tv_shows"); err == nil {
		t.Fatal("expected error for table without mediaHash")
	}
}
