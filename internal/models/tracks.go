package models

import (
	"math"
	"strings"
)

// SourceTrack is one row of a playlist export.
type SourceTrack struct {
	Title  string
	Artist string
	Album  string
}

// EscapeApostrophes backslash-escapes single quotes so values embed safely in query strings.
func EscapeApostrophes(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// Escaped returns a copy with every field passed through [EscapeApostrophes].
func (t SourceTrack) Escaped() SourceTrack {
	return SourceTrack{
		Title:  EscapeApostrophes(t.Title),
		Artist: EscapeApostrophes(t.Artist),
		Album:  EscapeApostrophes(t.Album),
	}
}

// CatalogTrack is one song search result from the catalog.
type CatalogTrack struct {
	TrackID        string
	TrackName      string
	ArtistName     string
	CollectionName string
}

// MatchRule names the ranking rule that selected a candidate.
type MatchRule string

const (
	RuleNone            MatchRule = ""
	RuleExactAll        MatchRule = "title+artist+album"
	RuleExactArtist     MatchRule = "title+artist"
	RuleExactAlbum      MatchRule = "title+album"
	RuleArtistSubstring MatchRule = "title+artist~"
	RuleAlbumSubstring  MatchRule = "title+album~"
	RuleExactTitle      MatchRule = "title"
	RuleTitleSubstring  MatchRule = "title~"
	RuleFirstResult     MatchRule = "first-result"
	RuleCached          MatchRule = "cached"
)

// MatchResult is either a catalog identifier or not-found (empty TrackID).
type MatchResult struct {
	TrackID string
	Rule    MatchRule
}

// NotFound is the zero [MatchResult].
var NotFound = MatchResult{}

// Found reports whether the match produced a catalog identifier.
func (m MatchResult) Found() bool {
	return m.TrackID != ""
}

// Playlist is a destination library playlist.
type Playlist struct {
	ID          string
	Name        string
	Description string
}

// AlbumRequest is one liked album from the albums export.
type AlbumRequest struct {
	Album  string `json:"album"`
	Artist string `json:"artist"`
}

// SyncResult tallies one playlist export.
type SyncResult struct {
	Playlist   Playlist
	Created    bool // destination playlist was created during this run
	Total      int
	Converted  int
	Failed     int
	Duplicates int
	Unresolved []SourceTrack
}

// Percentage is the rounded share of converted rows, 0 for an empty export.
func (r *SyncResult) Percentage() int {
	return percentage(r.Converted, r.Total)
}

// AlbumResult tallies one albums export.
type AlbumResult struct {
	Total    int
	Added    int
	Failed   int
	NotFound []AlbumRequest
}

// Percentage is the rounded share of added albums, 0 for an empty export.
func (r *AlbumResult) Percentage() int {
	return percentage(r.Added, r.Total)
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
