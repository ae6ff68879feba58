// Apple Music web API library operations
//
// Playlists, playlist tracks, catalog album search, and library adds against
// amp-api.music.apple.com, authenticated through a [Session].
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/amx/internal/models"
)

// PlaylistPageSize is the page size used when listing library playlists.
const PlaylistPageSize = 100

type libraryPlaylist struct {
	ID         string `json:"id"`
	Attributes struct {
		Name        string `json:"name"`
		Description struct {
			Standard string `json:"standard"`
		} `json:"description"`
	} `json:"attributes"`
}

type libraryPlaylistsResponse struct {
	Data []libraryPlaylist `json:"data"`
}

type librarySong struct {
	ID         string `json:"id"`
	Attributes struct {
		Name       string `json:"name"`
		PlayParams struct {
			CatalogID string `json:"catalogId"`
		} `json:"playParams"`
	} `json:"attributes"`
}

type librarySongsResponse struct {
	Data []librarySong `json:"data"`
	Next string        `json:"next"`
}

type catalogAlbumSearchResponse struct {
	Results struct {
		Albums struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"albums"`
	} `json:"results"`
}

// AppleMusicService implements [PlaylistLibrary] and [AlbumLibrary] for Apple Music.
type AppleMusicService struct {
	session    *Session
	storefront string
}

// NewAppleMusicService creates a service that issues every request through session.
func NewAppleMusicService(session *Session, storefront string) *AppleMusicService {
	if storefront == "" {
		storefront = "us"
	}
	return &AppleMusicService{session: session, storefront: storefront}
}

// Name returns the service name.
func (a *AppleMusicService) Name() string {
	return "Apple Music"
}

// GetPlaylists retrieves all library playlists.
//
// Calls GET /me/library/playlists page by page until a page comes back short.
func (a *AppleMusicService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist

	for offset := 0; ; offset += PlaylistPageSize {
		query := url.Values{
			"limit":  {strconv.Itoa(PlaylistPageSize)},
			"offset": {strconv.Itoa(offset)},
		}
		resp, err := a.session.Get(ctx, "/me/library/playlists", query)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, statusError("list playlists", resp)
		}

		var page libraryPlaylistsResponse
		if err := resp.Decode(&page); err != nil {
			return nil, err
		}

		for _, p := range page.Data {
			playlists = append(playlists, models.Playlist{
				ID:          p.ID,
				Name:        p.Attributes.Name,
				Description: p.Attributes.Description.Standard,
			})
		}

		if len(page.Data) < PlaylistPageSize {
			return playlists, nil
		}
	}
}

// CreatePlaylist creates a library playlist.
//
// Calls POST /me/library/playlists; anything but 201 Created is an error.
func (a *AppleMusicService) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	body := map[string]any{
		"attributes": map[string]string{
			"name":        name,
			"description": description,
		},
	}

	resp, err := a.session.Post(ctx, "/me/library/playlists", nil, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("playlist %q: %w", name, statusError("create playlist", resp))
	}

	var created libraryPlaylistsResponse
	if err := resp.Decode(&created); err != nil {
		return nil, err
	}
	if len(created.Data) == 0 {
		return nil, fmt.Errorf("create playlist %q: response contained no playlist", name)
	}

	return &models.Playlist{
		ID:          created.Data[0].ID,
		Name:        name,
		Description: description,
	}, nil
}

// PlaylistTrackIDs returns the catalog ids of the songs already in a playlist.
//
// Calls GET /me/library/playlists/{id}/tracks and follows "next" links.
// 404 means an empty playlist.
func (a *AppleMusicService) PlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error) {
	ids := []string{}
	next := fmt.Sprintf("/me/library/playlists/%s/tracks", url.PathEscape(playlistID))

	for next != "" {
		resp, err := a.session.Get(ctx, next, nil)
		if err != nil {
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusNotFound:
			return ids, nil
		default:
			return nil, fmt.Errorf("playlist %s: %w", playlistID, statusError("list playlist tracks", resp))
		}

		var page librarySongsResponse
		if err := resp.Decode(&page); err != nil {
			return nil, err
		}
		for _, song := range page.Data {
			if id := song.Attributes.PlayParams.CatalogID; id != "" {
				ids = append(ids, id)
			}
		}
		next = page.Next
	}

	return ids, nil
}

// AddTrack appends a catalog song to a library playlist.
//
// Calls POST /me/library/playlists/{id}/tracks; any 2xx status is success.
func (a *AppleMusicService) AddTrack(ctx context.Context, playlistID, trackID string) error {
	body := map[string]any{
		"data": []map[string]string{{"id": trackID, "type": "songs"}},
	}

	path := fmt.Sprintf("/me/library/playlists/%s/tracks", url.PathEscape(playlistID))
	resp, err := a.session.Post(ctx, path, nil, body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("song %s: %w", trackID, statusError("add track", resp))
	}
	return nil
}

// SearchAlbum returns the id of the first catalog album matching term.
//
// Calls GET /catalog/{storefront}/search?types=albums&limit=5.
func (a *AppleMusicService) SearchAlbum(ctx context.Context, term string) (string, error) {
	query := url.Values{
		"term":  {term},
		"types": {"albums"},
		"limit": {"5"},
	}

	resp, err := a.session.Get(ctx, fmt.Sprintf("/catalog/%s/search", a.storefront), query)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError("search albums", resp)
	}

	var result catalogAlbumSearchResponse
	if err := resp.Decode(&result); err != nil {
		return "", err
	}
	if albums := result.Results.Albums.Data; len(albums) > 0 {
		return albums[0].ID, nil
	}
	return "", nil
}

// AddAlbums saves catalog albums to the library.
//
// Calls POST /me/library?ids[albums]=...; the API answers 202 Accepted.
func (a *AppleMusicService) AddAlbums(ctx context.Context, albumIDs ...string) error {
	if len(albumIDs) == 0 {
		return nil
	}

	query := url.Values{"ids[albums]": {strings.Join(albumIDs, ",")}}
	resp, err := a.session.Post(ctx, "/me/library", query, []any{})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusAccepted {
		return statusError("add albums to library", resp)
	}
	return nil
}
