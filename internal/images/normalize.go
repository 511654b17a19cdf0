package images

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

const defaultJPEGQuality = 80

// JPEGNormalizer re-encodes every thumbnail as JPEG so the local image
// set stays uniform regardless of what the server delivers. Alpha is
// flattened onto black first; JPEG has no transparency.
type JPEGNormalizer struct {
	Quality int
}

// Transcode decodes webp, png, gif, or jpeg bytes and returns JPEG
// bytes at the configured quality.
func (n JPEGNormalizer) Transcode(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail: %w", err)
	}

	flattened := flattenOntoBlack(src)

	quality := n.Quality
	if quality <= 0 {
		quality = defaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flattened, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode %s thumbnail as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}

func flattenOntoBlack(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.Black, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)
	return dst
}
