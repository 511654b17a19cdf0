package store

import "testing"

func TestFTSQueryQuotesTerms(t *testing.T) {
	cases := map[string]string{
		"heat":            `"heat"`,
		"the thin red":    `"the" "thin" "red"`,
		`kill "quote"`:    `"kill" """quote"""`,
		"AND OR NOT":      `"and" "or" "not"`,
		"  spaced   out ": `"spaced" "out"`,
	}
	for input, want := range cases {
		if got := ftsQuery(input); got != want {
			t.Fatalf("ftsQuery(%q) = %q, want %q", input, got, want)
		}
	}
}
