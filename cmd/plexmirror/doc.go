// Command plexmirror mirrors Plex library metadata into a local SQLite
// catalog and keeps a directory of normalized thumbnails beside it.
package main
