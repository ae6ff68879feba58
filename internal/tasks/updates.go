package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/amx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	LoadPlaylists Phase = iota
	CreatePlaylist
	FetchTracks
	MatchTracks
	Duplicate
	AddTrack
	SearchAlbums
	AddAlbum
)

func (p Phase) String() string {
	switch p {
	case LoadPlaylists:
		return "load_playlists"
	case CreatePlaylist:
		return "create_playlist"
	case FetchTracks:
		return "fetch_tracks"
	case MatchTracks:
		return "match_tracks"
	case Duplicate:
		return "duplicate"
	case AddTrack:
		return "add_track"
	case SearchAlbums:
		return "search_albums"
	case AddAlbum:
		return "add_album"
	default:
		return ""
	}
}

// sendProgress delivers update unless progress is nil or ctx is done.
//
// Every row produces a console line, so updates are never dropped.
func sendProgress(ctx context.Context, progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	case <-ctx.Done():
	}
}

func loadPlaylistsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadPlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d library playlists", count),
	}
}

func createPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func existingPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist %s already exists (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func fetchTracksUpdate(pl *models.Playlist, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist %s already holds %d songs", pl.Name, count),
	}
}

// matchUpdate renders "N°n | title | artist | album => id|NOT FOUND".
func matchUpdate(step, total int, track models.SourceTrack, result models.MatchResult) ProgressUpdate {
	outcome := "NOT FOUND"
	if result.Found() {
		outcome = result.TrackID
	}
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("N°%d | %s | %s | %s => %s", step, track.Title, track.Artist, track.Album, outcome),
		Data:    result,
	}
}

func duplicateUpdate(step, total int, trackID, playlist string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Duplicate,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Song %s already in playlist %s!", trackID, playlist),
	}
}

func addTrackUpdate(step, total int, trackID, playlist string, err error) ProgressUpdate {
	msg := fmt.Sprintf("Song %s added to playlist %s!", trackID, playlist)
	if err != nil {
		msg = fmt.Sprintf("Error while adding song %s to playlist %s: %v", trackID, playlist, err)
	}
	return ProgressUpdate{
		Phase:   AddTrack,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    err,
	}
}

func albumNotFoundUpdate(step, total int, album models.AlbumRequest) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchAlbums,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Album %s by %s not found!", album.Album, album.Artist),
	}
}

func addAlbumUpdate(step, total int, album models.AlbumRequest, err error) ProgressUpdate {
	msg := fmt.Sprintf("Album %s by %s added to library!", album.Album, album.Artist)
	if err != nil {
		msg = fmt.Sprintf("Error while adding album %s by %s to library: %v", album.Album, album.Artist, err)
	}
	return ProgressUpdate{
		Phase:   AddAlbum,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    err,
	}
}
