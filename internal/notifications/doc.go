// Package notifications delivers sync lifecycle events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and degrades to a no-op when no topic is set, so callers
// never have to guard their notify calls. All sync code depends only
// on the Service interface.
package notifications
