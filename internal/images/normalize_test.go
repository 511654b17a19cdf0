package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngWithAlpha(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 0})
		}
	}
	// One opaque pixel so the encode has real content.
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestTranscodeFlattensAlphaToJPEG(t *testing.T) {
	out, err := JPEGNormalizer{}.Transcode(pngWithAlpha(t))
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	// Fully transparent pixels flatten to black.
	r, g, b, _ := decoded.At(4, 4).RGBA()
	if r > 0x0f00 || g > 0x0f00 || b > 0x0f00 {
		t.Fatalf("expected near-black pixel, got r=%d g=%d b=%d", r, g, b)
	}
}

func TestTranscodePassesJPEGThrough(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	out, err := JPEGNormalizer{Quality: 60}.Transcode(buf.Bytes())
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
}

func TestTranscodeRejectsGarbage(t *testing.T) {
	if _, err := (JPEGNormalizer{}).Transcode([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}
