// Package store persists the mirrored catalog in SQLite.
//
// Each library pass saves in a single transaction: parents are
// upserted before children, the seen-set reconciler flips rows that
// disappeared from the server to unavailable, and the FTS5 shadow
// search index is kept in step. Rows are never deleted by
// reconciliation; availability is a soft flag so history survives
// transient server gaps.
//
// Migrations are ordered, embedded, and applied inside a transaction
// at open. The FTS5 migration is an optional capability: builds
// without FTS5 degrade to a LIKE-based search scan.
package store
