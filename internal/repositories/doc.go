// Package repositories implements SQLite persistence for run history and the match cache.
//
// Key Implementations:
//   - [RunRepository] : one row per synchronized export, with status and tally
//   - [MatchRepository] : catalog matches keyed by the escaped (title, artist, album) triple
//   - [MatchCache] : adapts [MatchRepository] to the matcher's cache interface
//
// Runs are soft-deleted via deleted_at and excluded from queries by default.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
