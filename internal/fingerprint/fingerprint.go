// Package fingerprint derives the change-detection digest for catalog
// leaves. The digest folds together the fields whose change should
// invalidate cached artifacts such as thumbnails. It is deterministic
// across runs and processes.
package fingerprint

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Input holds the leaf fields that participate in the digest. Zero
// values are legal and contribute their textual form, so a media item
// that gains a previously missing field changes its digest.
type Input struct {
	Title      string
	Year       int
	DurationMS int64
	SizeBytes  int64
	Codec      string
	Resolution string
	Container  string
}

// Digest returns a 16-hex-digit fingerprint of the input. Inputs that
// differ in any field produce different digests; equal inputs always
// produce the same digest.
func Digest(in Input) string {
	var b strings.Builder
	b.Grow(64)
	b.WriteString(in.Title)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(in.Year))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(in.DurationMS, 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(in.SizeBytes, 10))
	b.WriteByte('|')
	b.WriteString(in.Codec)
	b.WriteByte('|')
	b.WriteString(in.Resolution)
	b.WriteByte('|')
	b.WriteString(in.Container)

	sum := xxhash.Sum64String(b.String())
	out := strconv.FormatUint(sum, 16)
	if len(out) < 16 {
		out = strings.Repeat("0", 16-len(out)) + out
	}
	return out
}
