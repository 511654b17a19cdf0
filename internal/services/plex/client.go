package plex

import "context"

// Library identifies a library section on the server.
type Library struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Tag is a named metadata tag; Role carries the part an actor plays.
type Tag struct {
	Tag  string `json:"tag"`
	Role string `json:"role"`
}

// Part is one stored file backing a media version.
type Part struct {
	Size      int64  `json:"size"`
	Container string `json:"container"`
	Duration  int64  `json:"duration"`
}

// Media is one playable version of an item.
type Media struct {
	Duration        int64  `json:"duration"`
	VideoResolution string `json:"videoResolution"`
	VideoCodec      string `json:"videoCodec"`
	AudioCodec      string `json:"audioCodec"`
	Container       string `json:"container"`
	Part            []Part `json:"Part"`
}

// Item is a raw metadata element as returned by the server. Rating
// keys stay strings on the wire; the sync engine parses them.
type Item struct {
	RatingKey             string  `json:"ratingKey"`
	ParentRatingKey       string  `json:"parentRatingKey"`
	GrandparentRatingKey  string  `json:"grandparentRatingKey"`
	Type                  string  `json:"type"`
	Title                 string  `json:"title"`
	Index                 int     `json:"index"`
	Year                  int     `json:"year"`
	ContentRating         string  `json:"contentRating"`
	Summary               string  `json:"summary"`
	Tagline               string  `json:"tagline"`
	Studio                string  `json:"studio"`
	Thumb                 string  `json:"thumb"`
	Duration              int64   `json:"duration"`
	OriginallyAvailableAt string  `json:"originallyAvailableAt"`
	Rating                float64 `json:"rating"`
	AudienceRating        float64 `json:"audienceRating"`
	LeafCount             int     `json:"leafCount"`
	ChildCount            int     `json:"childCount"`
	Genre                 []Tag   `json:"Genre"`
	Director              []Tag   `json:"Director"`
	Writer                []Tag   `json:"Writer"`
	Producer              []Tag   `json:"Producer"`
	Role                  []Tag   `json:"Role"`
	Media                 []Media `json:"Media"`
}

// Client is the catalog access seam the sync engine depends on.
type Client interface {
	// Libraries lists the server's library sections.
	Libraries(ctx context.Context) ([]Library, error)
	// Items lists the top-level items of a library section.
	Items(ctx context.Context, libraryKey string) ([]Item, error)
	// Children lists the direct children of an item.
	Children(ctx context.Context, ratingKey string) ([]Item, error)
	// Thumbnail fetches the raw bytes behind a thumb path.
	Thumbnail(ctx context.Context, thumbPath string) ([]byte, error)
}
