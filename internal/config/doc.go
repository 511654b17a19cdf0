// Package config loads, normalizes, and validates plexmirror configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLEX_URL and PLEX_TOKEN. The Config type centralizes every knob the CLI
// needs, so database, image, and log locations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
