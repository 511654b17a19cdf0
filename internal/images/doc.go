// Package images schedules and executes thumbnail downloads.
//
// The pipeline collects one task per new or changed leaf plus every
// aggregate entity, then runs them sequentially or through a bounded
// worker pool. Per-task failures are counted, never fatal: a missing
// or broken thumbnail must not abort a sync run. Files are written
// atomically so readers never observe a partial image.
package images
