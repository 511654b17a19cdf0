// Package sync drives a full mirror pass: fetch library contents from
// the Plex server, extract and aggregate metadata, download thumbnails,
// and persist each library as one transactional batch.
//
// Error containment is scoped. A leaf without media files is skipped
// and left out of the seen set. A failed child fetch skips that show
// or artist subtree. A failed library fetch skips the library without
// touching its rows. Only connection-level failures abort the run.
package sync
