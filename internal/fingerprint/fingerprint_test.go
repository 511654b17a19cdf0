package fingerprint

import "testing"

func TestDigestIsDeterministic(t *testing.T) {
	in := Input{
		Title:      "Blade Runner",
		Year:       1982,
		DurationMS: 7020000,
		SizeBytes:  4200000000,
		Codec:      "hevc",
		Resolution: "2160p",
		Container:  "mkv",
	}
	first := Digest(in)
	second := Digest(in)
	if first != second {
		t.Fatalf("digest not stable: %q vs %q", first, second)
	}
	if len(first) != 16 {
		t.Fatalf("digest %q is not 16 hex digits", first)
	}
	for _, r := range first {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("digest %q contains non-hex rune %q", first, r)
		}
	}
}

func TestDigestChangesWithEveryField(t *testing.T) {
	base := Input{
		Title:      "Heat",
		Year:       1995,
		DurationMS: 10200000,
		SizeBytes:  9000000000,
		Codec:      "h264",
		Resolution: "1080p",
		Container:  "mkv",
	}
	baseDigest := Digest(base)

	mutations := map[string]Input{
		"title":      {Title: "Heat 2", Year: base.Year, DurationMS: base.DurationMS, SizeBytes: base.SizeBytes, Codec: base.Codec, Resolution: base.Resolution, Container: base.Container},
		"year":       {Title: base.Title, Year: 1996, DurationMS: base.DurationMS, SizeBytes: base.SizeBytes, Codec: base.Codec, Resolution: base.Resolution, Container: base.Container},
		"duration":   {Title: base.Title, Year: base.Year, DurationMS: base.DurationMS + 1, SizeBytes: base.SizeBytes, Codec: base.Codec, Resolution: base.Resolution, Container: base.Container},
		"size":       {Title: base.Title, Year: base.Year, DurationMS: base.DurationMS, SizeBytes: base.SizeBytes + 1, Codec: base.Codec, Resolution: base.Resolution, Container: base.Container},
		"codec":      {Title: base.Title, Year: base.Year, DurationMS: base.DurationMS, SizeBytes: base.SizeBytes, Codec: "hevc", Resolution: base.Resolution, Container: base.Container},
		"resolution": {Title: base.Title, Year: base.Year, DurationMS: base.DurationMS, SizeBytes: base.SizeBytes, Codec: base.Codec, Resolution: "2160p", Container: base.Container},
		"container":  {Title: base.Title, Year: base.Year, DurationMS: base.DurationMS, SizeBytes: base.SizeBytes, Codec: base.Codec, Resolution: base.Resolution, Container: "mp4"},
	}
	for field, mutated := range mutations {
		if Digest(mutated) == baseDigest {
			t.Fatalf("changing %s did not change the digest", field)
		}
	}
}

func TestDigestHandlesZeroValues(t *testing.T) {
	if got := Digest(Input{}); len(got) != 16 {
		t.Fatalf("zero input digest %q is not 16 hex digits", got)
	}
	// Field boundaries matter, not just concatenated bytes.
	a := Digest(Input{Title: "ab", Codec: "c"})
	b := Digest(Input{Title: "a", Codec: "bc"})
	if a == b {
		t.Fatal("digest collides across field boundaries")
	}
}
