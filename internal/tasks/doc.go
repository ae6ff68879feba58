// Package tasks migrates exported music libraries into Apple Music with real-time progress reporting.
//
// # Matching
//
// [Matcher] resolves one (title, artist, album) triple to a catalog song id:
//
//  1. Search with "title artist album", relaxing to "title artist",
//     "title album", then "title" while the catalog returns nothing.
//  2. Rank the last result set with [Rank], trying in order: exact triple,
//     exact title+artist, exact title+album, exact title with artist
//     substring, exact title with album substring, exact title, title
//     substring. The first candidate satisfying the first matching rule wins.
//  3. Fall back to the first candidate, or report not found.
//
// Comparisons use Unicode case folding. Search failures are logged and
// reported as not found.
//
// # Synchronization
//
// [Synchronizer.SyncPlaylist] imports one playlist export: it reuses or
// creates the destination playlist, skips songs already present, and appends
// unmatched rows to the unresolved log. [AlbumSynchronizer.SyncAlbums] does
// the same for liked albums without deduplication.
//
// A [Pacer] spaces out rows to stay within the web API's tolerance.
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel. Sends block
// until received or the context is cancelled.
//
// # Match Caching
//
// The optional [MatchCache] interface (repositories.MatchCache) skips
// catalog searches for triples matched on a previous run.
package tasks
