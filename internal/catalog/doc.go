// Package catalog defines the normalized entity records plexmirror
// persists and the display normalization helpers that derive their
// human-readable fields. Records carry both raw machine values
// (milliseconds, bytes) and the display forms rendered from them so
// consumers never re-derive formatting.
package catalog
