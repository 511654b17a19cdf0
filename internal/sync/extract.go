package sync

import (
	"fmt"
	"strconv"

	"plexmirror/internal/catalog"
	"plexmirror/internal/fingerprint"
	"plexmirror/internal/services"
	"plexmirror/internal/services/plex"
)

// parseRatingKey converts the wire-format rating key to the integer
// primary key. A malformed key is permanent: retrying cannot fix it.
func parseRatingKey(raw string) (int64, error) {
	key, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, services.Wrap(services.ErrPermanent, "sync", "parse rating key",
			fmt.Sprintf("invalid rating key %q", raw), err)
	}
	return key, nil
}

// mediaInfo is the file-level detail behind one leaf item.
type mediaInfo struct {
	SizeBytes       int64
	DurationMS      int64
	VideoCodec      string
	VideoResolution string
	AudioCodec      string
	Container       string
}

// extractMediaInfo folds an item's media versions into one record:
// sizes sum across every part, the remaining fields come from the
// first version that carries them. An item with no media files behind
// it yields ErrMissingMedia.
func extractMediaInfo(item plex.Item) (mediaInfo, error) {
	var info mediaInfo
	var parts int
	for _, media := range item.Media {
		if info.DurationMS == 0 {
			info.DurationMS = media.Duration
		}
		if info.VideoCodec == "" {
			info.VideoCodec = catalog.NormalizeCodec(media.VideoCodec)
		}
		if info.VideoResolution == "" {
			info.VideoResolution = catalog.NormalizeResolution(media.VideoResolution)
		}
		if info.AudioCodec == "" {
			info.AudioCodec = catalog.NormalizeCodec(media.AudioCodec)
		}
		if info.Container == "" {
			info.Container = media.Container
		}
		for _, part := range media.Part {
			parts++
			info.SizeBytes += part.Size
		}
	}
	if parts == 0 {
		return info, services.Wrap(services.ErrMissingMedia, "sync", "extract media",
			fmt.Sprintf("%q has no media files", item.Title), nil)
	}
	if info.DurationMS == 0 {
		info.DurationMS = item.Duration
	}
	return info, nil
}

func extractMovie(item plex.Item) (catalog.Movie, error) {
	key, err := parseRatingKey(item.RatingKey)
	if err != nil {
		return catalog.Movie{}, err
	}
	info, err := extractMediaInfo(item)
	if err != nil {
		return catalog.Movie{}, err
	}

	return catalog.Movie{
		RatingKey:       key,
		Title:           item.Title,
		Year:            item.Year,
		ContentRating:   item.ContentRating,
		DurationMS:      info.DurationMS,
		DurationHuman:   catalog.HumanDuration(info.DurationMS),
		AudioCodec:      info.AudioCodec,
		Container:       info.Container,
		VideoCodec:      info.VideoCodec,
		VideoResolution: info.VideoResolution,
		SizeBytes:       info.SizeBytes,
		SizeHuman:       catalog.HumanSize(info.SizeBytes),
		MediaHash: fingerprint.Digest(fingerprint.Input{
			Title:      item.Title,
			Year:       item.Year,
			DurationMS: info.DurationMS,
			SizeBytes:  info.SizeBytes,
			Codec:      info.VideoCodec,
			Resolution: info.VideoResolution,
			Container:  info.Container,
		}),
		Summary:               item.Summary,
		Tagline:               item.Tagline,
		Genres:                catalog.JoinTags(tagNames(item.Genre)),
		Studio:                item.Studio,
		Directors:             catalog.JoinTags(tagNames(item.Director)),
		Writers:               catalog.JoinTags(tagNames(item.Writer)),
		Producers:             catalog.JoinTags(tagNames(item.Producer)),
		Actors:                catalog.JoinRoles(castRoles(item.Role)),
		OriginallyAvailableAt: item.OriginallyAvailableAt,
		Rating:                item.Rating,
		AudienceRating:        item.AudienceRating,
	}, nil
}

func extractEpisode(item plex.Item, showKey, seasonKey int64) (catalog.Episode, error) {
	key, err := parseRatingKey(item.RatingKey)
	if err != nil {
		return catalog.Episode{}, err
	}
	info, err := extractMediaInfo(item)
	if err != nil {
		return catalog.Episode{}, err
	}

	return catalog.Episode{
		RatingKey:       key,
		SeasonRatingKey: seasonKey,
		ShowRatingKey:   showKey,
		EpisodeNumber:   item.Index,
		Title:           item.Title,
		Year:            item.Year,
		DurationMS:      info.DurationMS,
		DurationHuman:   catalog.HumanDuration(info.DurationMS),
		AudioCodec:      info.AudioCodec,
		Container:       info.Container,
		VideoCodec:      info.VideoCodec,
		VideoResolution: info.VideoResolution,
		SizeBytes:       info.SizeBytes,
		SizeHuman:       catalog.HumanSize(info.SizeBytes),
		MediaHash: fingerprint.Digest(fingerprint.Input{
			Title:      item.Title,
			Year:       item.Year,
			DurationMS: info.DurationMS,
			SizeBytes:  info.SizeBytes,
			Codec:      info.VideoCodec,
			Resolution: info.VideoResolution,
			Container:  info.Container,
		}),
		Summary:               item.Summary,
		OriginallyAvailableAt: item.OriginallyAvailableAt,
		Directors:             catalog.JoinTags(tagNames(item.Director)),
		Writers:               catalog.JoinTags(tagNames(item.Writer)),
		Actors:                catalog.JoinRoles(castRoles(item.Role)),
		Rating:                item.Rating,
		AudienceRating:        item.AudienceRating,
	}, nil
}

// extractTrack builds a track leaf. Audio has no video codec or
// resolution, so the fingerprint folds in empty strings there, and the
// year comes from the album.
func extractTrack(item plex.Item, albumKey, artistKey int64, albumYear int) (catalog.Track, error) {
	key, err := parseRatingKey(item.RatingKey)
	if err != nil {
		return catalog.Track{}, err
	}
	info, err := extractMediaInfo(item)
	if err != nil {
		return catalog.Track{}, err
	}

	var durationHuman string
	if info.DurationMS > 0 {
		durationHuman = catalog.HumanDuration(info.DurationMS)
	}
	return catalog.Track{
		RatingKey:       key,
		AlbumRatingKey:  albumKey,
		ArtistRatingKey: artistKey,
		Title:           item.Title,
		TrackNumber:     item.Index,
		DurationMS:      info.DurationMS,
		DurationHuman:   durationHuman,
		SizeBytes:       info.SizeBytes,
		SizeHuman:       catalog.HumanSize(info.SizeBytes),
		Container:       info.Container,
		MediaHash: fingerprint.Digest(fingerprint.Input{
			Title:      item.Title,
			Year:       albumYear,
			DurationMS: info.DurationMS,
			SizeBytes:  info.SizeBytes,
			Container:  info.Container,
		}),
		Summary:               item.Summary,
		OriginallyAvailableAt: item.OriginallyAvailableAt,
		Genres:                catalog.JoinTags(tagNames(item.Genre)),
	}, nil
}

func tagNames(tags []plex.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Tag)
	}
	return names
}

func castRoles(tags []plex.Tag) []catalog.Role {
	roles := make([]catalog.Role, 0, len(tags))
	for _, tag := range tags {
		roles = append(roles, catalog.Role{Name: tag.Tag, Part: tag.Role})
	}
	return roles
}
