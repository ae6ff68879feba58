// Package models defines domain entities and persistence interfaces for the amx library migrator.
//
// The package contains two categories of types:
//
// 1. Value types exchanged between the export readers, the matcher, and the services
//   - [SourceTrack] : one row of a playlist export (title, artist, album)
//   - [CatalogTrack] : one iTunes Search candidate
//   - [MatchResult] : the chosen catalog id and the [MatchRule] that selected it
//   - [Playlist] : library playlist metadata
//   - [AlbumRequest] : one entry of a liked-albums export
//   - [SyncResult], [AlbumResult] : per-run counters and conversion percentage
//
// 2. Persistent entities
//   - [Run] : one synchronized export, recorded in the run history
//   - [CachedMatch] : a stored catalog match for a source track
//
// [Run] implements the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
