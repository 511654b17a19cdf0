package sync

import (
	"plexmirror/internal/catalog"
	"plexmirror/internal/services/plex"
)

// aggregateSeason derives the season row from every extracted episode
// beneath it, whether or not the episode changed since the last run.
func aggregateSeason(item plex.Item, showKey, seasonKey int64, episodes []catalog.Episode) catalog.Season {
	var (
		totalDuration int64
		totalSize     int64
		resolutions   []string
		audioCodecs   []string
		videoCodecs   []string
		containers    []string
		years         []int
	)
	for _, ep := range episodes {
		totalDuration += ep.DurationMS
		totalSize += ep.SizeBytes
		resolutions = append(resolutions, ep.VideoResolution)
		audioCodecs = append(audioCodecs, ep.AudioCodec)
		videoCodecs = append(videoCodecs, ep.VideoCodec)
		containers = append(containers, ep.Container)
		years = append(years, ep.Year)
	}

	var avgDuration int64
	if len(episodes) > 0 {
		avgDuration = totalDuration / int64(len(episodes))
	}
	return catalog.Season{
		RatingKey:             seasonKey,
		ShowRatingKey:         showKey,
		SeasonNumber:          item.Index,
		EpisodeCount:          len(episodes),
		AvgEpisodeDurationMS:  avgDuration,
		AvgEpisodeDuration:    catalog.HumanDuration(avgDuration),
		SizeBytes:             totalSize,
		SizeHuman:             catalog.HumanSize(totalSize),
		VideoResolutions:      catalog.JoinSet(resolutions),
		AudioCodecs:           catalog.JoinSet(audioCodecs),
		VideoCodecs:           catalog.JoinSet(videoCodecs),
		Containers:            catalog.JoinSet(containers),
		YearRange:             catalog.YearRange(years),
		Summary:               item.Summary,
		Title:                 item.Title,
		OriginallyAvailableAt: item.OriginallyAvailableAt,
	}
}

// aggregateShow derives the show row from every extracted episode
// across all its seasons. When no episode carried media the average
// falls back to the show's own advertised duration.
func aggregateShow(item plex.Item, showKey int64, seasonCount int, episodes []catalog.Episode) catalog.Show {
	var (
		totalDuration int64
		totalSize     int64
		resolutions   []string
		audioCodecs   []string
		videoCodecs   []string
		containers    []string
		years         []int
	)
	for _, ep := range episodes {
		totalDuration += ep.DurationMS
		totalSize += ep.SizeBytes
		resolutions = append(resolutions, ep.VideoResolution)
		audioCodecs = append(audioCodecs, ep.AudioCodec)
		videoCodecs = append(videoCodecs, ep.VideoCodec)
		containers = append(containers, ep.Container)
		years = append(years, ep.Year)
	}

	avgDuration := item.Duration
	if len(episodes) > 0 {
		avgDuration = totalDuration / int64(len(episodes))
	}
	if item.ChildCount > 0 {
		seasonCount = item.ChildCount
	}
	return catalog.Show{
		RatingKey:             showKey,
		Title:                 item.Title,
		ContentRating:         item.ContentRating,
		AvgEpisodeDurationMS:  avgDuration,
		AvgEpisodeDuration:    catalog.HumanDuration(avgDuration),
		SeasonCount:           seasonCount,
		EpisodeCount:          len(episodes),
		SizeBytes:             totalSize,
		SizeHuman:             catalog.HumanSize(totalSize),
		VideoResolutions:      catalog.JoinSet(resolutions),
		AudioCodecs:           catalog.JoinSet(audioCodecs),
		VideoCodecs:           catalog.JoinSet(videoCodecs),
		Containers:            catalog.JoinSet(containers),
		YearRange:             catalog.YearRange(years),
		Summary:               item.Summary,
		Genres:                catalog.JoinTags(tagNames(item.Genre)),
		Studio:                item.Studio,
		Actors:                catalog.JoinRoles(castRoles(item.Role)),
		OriginallyAvailableAt: item.OriginallyAvailableAt,
		Rating:                item.Rating,
		AudienceRating:        item.AudienceRating,
	}
}

// aggregateAlbum derives the album row from every extracted track.
func aggregateAlbum(item plex.Item, artistKey, albumKey int64, tracks []catalog.Track) catalog.Album {
	var (
		totalDuration int64
		totalSize     int64
		containers    []string
	)
	for _, track := range tracks {
		totalDuration += track.DurationMS
		totalSize += track.SizeBytes
		containers = append(containers, track.Container)
	}

	var durationHuman string
	if totalDuration > 0 {
		durationHuman = catalog.HumanDuration(totalDuration)
	}
	return catalog.Album{
		RatingKey:             albumKey,
		ArtistRatingKey:       artistKey,
		Title:                 item.Title,
		Year:                  item.Year,
		TrackCount:            len(tracks),
		SizeBytes:             totalSize,
		SizeHuman:             catalog.HumanSize(totalSize),
		DurationMS:            totalDuration,
		DurationHuman:         durationHuman,
		Containers:            catalog.JoinSet(containers),
		Summary:               item.Summary,
		Genres:                catalog.JoinTags(tagNames(item.Genre)),
		OriginallyAvailableAt: item.OriginallyAvailableAt,
		Studio:                item.Studio,
	}
}

// aggregateArtist derives the artist row from every extracted album,
// not just the last one processed.
func aggregateArtist(item plex.Item, artistKey int64, albums []catalog.Album) catalog.Artist {
	var (
		totalTracks int
		totalSize   int64
		years       []int
	)
	for _, album := range albums {
		totalTracks += album.TrackCount
		totalSize += album.SizeBytes
		years = append(years, album.Year)
	}
	return catalog.Artist{
		RatingKey:  artistKey,
		Name:       item.Title,
		AlbumCount: len(albums),
		TrackCount: totalTracks,
		SizeBytes:  totalSize,
		SizeHuman:  catalog.HumanSize(totalSize),
		YearRange:  catalog.YearRange(years),
		Summary:    item.Summary,
		Genres:     catalog.JoinTags(tagNames(item.Genre)),
	}
}
