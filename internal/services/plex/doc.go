// Package plex speaks to a Plex Media Server's metadata API.
//
// The Client interface is the seam the sync engine depends on; the
// bundled HTTP implementation authenticates with X-Plex-Token, decodes
// MediaContainer envelopes, and classifies failures with the services
// error taxonomy so callers can retry or contain them.
package plex
