// Package services talks to the two HTTP APIs a migration needs.
//
// # Catalog Search
//
// [ITunesService] implements [SongSearcher] against the public iTunes Search
// API. Requests are unauthenticated; country and result limit come from the
// [itunes] config section.
//
// # Library
//
// [AppleMusicService] implements [PlaylistLibrary] and [AlbumLibrary] against
// the private Apple Music web API used by music.apple.com. Every call goes
// through a [Session] built from an explicit [SessionConfig]:
//   - The bearer token is attached by an [oauth2.Transport] with a static token source
//   - The media user token, cookies, and web player headers are added by the session transport
//
// Credentials are opaque; they are never refreshed or inspected.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrAPIRequest] : the HTTP round trip failed
//   - [shared.ErrUnexpectedStatus] : the API answered with a status the operation does not accept
//   - [shared.ErrInvalidConfig] : the session base URL could not be parsed
//
// Callers decide whether an error is fatal; the matcher treats search errors
// as "not found" while playlist listing and creation abort a sync.
package services
