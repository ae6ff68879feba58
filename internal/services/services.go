package services

import (
	"context"

	"github.com/desertthunder/amx/internal/models"
)

// Service is an external API client.
type Service interface {
	Name() string
}

// SongSearcher searches the song catalog by free-text term.
type SongSearcher interface {
	// SearchSongs returns the catalog's candidates for term, possibly none.
	// Any transport, status, or decode failure is returned as an error.
	SearchSongs(ctx context.Context, term string) ([]models.CatalogTrack, error)
}

// PlaylistLibrary manages playlists in the user's destination library.
type PlaylistLibrary interface {
	// GetPlaylists retrieves every library playlist, following pagination.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// CreatePlaylist creates a new library playlist.
	CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error)

	// PlaylistTrackIDs returns the catalog ids already in a playlist.
	// A playlist the service reports as not found has no tracks.
	PlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error)

	// AddTrack appends one catalog song to a playlist.
	AddTrack(ctx context.Context, playlistID, trackID string) error
}

// AlbumLibrary resolves albums in the catalog and saves them to the library.
type AlbumLibrary interface {
	// SearchAlbum returns the first catalog album id for term, or "" when there is none.
	SearchAlbum(ctx context.Context, term string) (string, error)

	// AddAlbums saves catalog albums to the library.
	AddAlbums(ctx context.Context, albumIDs ...string) error
}
