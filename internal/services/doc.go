// Package services defines the error taxonomy shared by the sync
// engine and the retry policy applied to transient failures.
//
// Errors are tagged with sentinel markers so callers can classify a
// failure without knowing which layer produced it. Classification
// decides containment: a missing-media leaf is skipped, a transient
// error is retried then contained to its scope, a permanent error
// skips the item without retrying, and a fatal error aborts the run.
package services
