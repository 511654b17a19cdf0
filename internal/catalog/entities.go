package catalog

// Entity kinds as stored in the search index.
const (
	KindMovie  = "movie"
	KindShow   = "show"
	KindArtist = "artist"
)

// Movie is a fully extracted movie leaf.
type Movie struct {
	RatingKey             int64
	Title                 string
	Year                  int
	ContentRating         string
	DurationMS            int64
	DurationHuman         string
	AudioCodec            string
	Container             string
	VideoCodec            string
	VideoResolution       string
	SizeBytes             int64
	SizeHuman             string
	MediaHash             string
	Summary               string
	Tagline               string
	Genres                string
	Studio                string
	Directors             string
	Writers               string
	Producers             string
	Actors                string
	OriginallyAvailableAt string
	Rating                float64
	AudienceRating        float64
}

// Show is a show aggregate re-derived from its episodes each run.
type Show struct {
	RatingKey             int64
	Title                 string
	ContentRating         string
	AvgEpisodeDurationMS  int64
	AvgEpisodeDuration    string
	SeasonCount           int
	EpisodeCount          int
	SizeBytes             int64
	SizeHuman             string
	VideoResolutions      string
	AudioCodecs           string
	VideoCodecs           string
	Containers            string
	YearRange             string
	Summary               string
	Genres                string
	Studio                string
	Actors                string
	OriginallyAvailableAt string
	Rating                float64
	AudienceRating        float64
}

// Season is a season aggregate re-derived from its episodes each run.
type Season struct {
	RatingKey             int64
	ShowRatingKey         int64
	SeasonNumber          int
	EpisodeCount          int
	AvgEpisodeDurationMS  int64
	AvgEpisodeDuration    string
	SizeBytes             int64
	SizeHuman             string
	VideoResolutions      string
	AudioCodecs           string
	VideoCodecs           string
	Containers            string
	YearRange             string
	Summary               string
	Title                 string
	OriginallyAvailableAt string
}

// Episode is a fully extracted episode leaf.
type Episode struct {
	RatingKey             int64
	SeasonRatingKey       int64
	ShowRatingKey         int64
	EpisodeNumber         int
	Title                 string
	Year                  int
	DurationMS            int64
	DurationHuman         string
	AudioCodec            string
	Container             string
	VideoCodec            string
	VideoResolution       string
	SizeBytes             int64
	SizeHuman             string
	MediaHash             string
	Summary               string
	OriginallyAvailableAt string
	Directors             string
	Writers               string
	Actors                string
	Rating                float64
	AudienceRating        float64
}

// Artist is an artist aggregate re-derived from its albums each run.
type Artist struct {
	RatingKey  int64
	Name       string
	AlbumCount int
	TrackCount int
	SizeBytes  int64
	SizeHuman  string
	YearRange  string
	Summary    string
	Genres     string
}

// Album is an album aggregate re-derived from its tracks each run.
type Album struct {
	RatingKey             int64
	ArtistRatingKey       int64
	Title                 string
	Year                  int
	TrackCount            int
	SizeBytes             int64
	SizeHuman             string
	DurationMS            int64
	DurationHuman         string
	Containers            string
	Summary               string
	Genres                string
	OriginallyAvailableAt string
	Studio                string
}

// Track is a fully extracted track leaf.
type Track struct {
	RatingKey             int64
	AlbumRatingKey        int64
	ArtistRatingKey       int64
	Title                 string
	TrackNumber           int
	DurationMS            int64
	DurationHuman         string
	SizeBytes             int64
	SizeHuman             string
	Container             string
	MediaHash             string
	Summary               string
	OriginallyAvailableAt string
	Genres                string
}
