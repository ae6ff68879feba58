package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/amx/internal/formatter"
	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/services"
	"github.com/desertthunder/amx/internal/shared"
)

// SyncOptions configures a [Synchronizer].
type SyncOptions struct {
	Description   string // description given to created playlists
	UnresolvedLog string // path of the unresolved tracks log
	Pacer         *Pacer
	Logger        *log.Logger
}

// Synchronizer imports playlist exports into the destination library.
//
// The library's playlists are listed once, on first use, and the index is
// kept current as playlists are created.
type Synchronizer struct {
	library services.PlaylistLibrary
	matcher TrackMatcher
	opts    SyncOptions
	logger  *log.Logger
	index   map[string]models.Playlist
}

// NewSynchronizer creates a [Synchronizer] adding matches to library.
func NewSynchronizer(library services.PlaylistLibrary, matcher TrackMatcher, opts SyncOptions) *Synchronizer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Synchronizer{library: library, matcher: matcher, opts: opts, logger: logger}
}

// SyncPlaylist imports one playlist export file.
//
// Destination playlist creation, existing track listing, and invalid
// exports fail the file. Individual rows never do: not-found rows are
// appended to the unresolved log and rejected adds are counted as failed.
// On cancellation the partial result is returned along with ctx's error.
func (s *Synchronizer) SyncPlaylist(ctx context.Context, exportFile string, progress chan<- ProgressUpdate) (*models.SyncResult, error) {
	name := formatter.PlaylistName(exportFile)

	tracks, err := formatter.ReadPlaylistExport(exportFile)
	if err != nil {
		return nil, err
	}

	playlist, created, err := s.ensurePlaylist(ctx, name, progress)
	if err != nil {
		return nil, err
	}

	result := &models.SyncResult{Playlist: *playlist, Created: created, Unresolved: []models.SourceTrack{}}

	existing := map[string]struct{}{}
	if !created {
		ids, err := s.library.PlaylistTrackIDs(ctx, playlist.ID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			existing[id] = struct{}{}
		}
		sendProgress(ctx, progress, fetchTracksUpdate(playlist, len(existing)))
	}

	total := len(tracks)
	for i, raw := range tracks {
		step := i + 1
		result.Total++
		track := raw.Escaped()

		match := s.matcher.Match(ctx, track)
		sendProgress(ctx, progress, matchUpdate(step, total, track, match))

		switch _, dup := existing[match.TrackID]; {
		case !match.Found():
			s.recordUnresolved(name, track)
			result.Unresolved = append(result.Unresolved, track)
			result.Failed++
		case dup:
			sendProgress(ctx, progress, duplicateUpdate(step, total, match.TrackID, name))
			result.Duplicates++
			result.Failed++
		default:
			err := s.library.AddTrack(ctx, playlist.ID, match.TrackID)
			sendProgress(ctx, progress, addTrackUpdate(step, total, match.TrackID, name, err))
			if err != nil {
				s.logger.Warn("add track failed", "playlist", name, "id", match.TrackID, "error", err)
				result.Failed++
			} else {
				existing[match.TrackID] = struct{}{}
				result.Converted++
			}
		}

		if err := s.opts.Pacer.Wait(ctx); err != nil {
			return result, err
		}
	}

	return result, nil
}

// ensurePlaylist returns the library playlist named name, creating it if absent.
func (s *Synchronizer) ensurePlaylist(ctx context.Context, name string, progress chan<- ProgressUpdate) (*models.Playlist, bool, error) {
	if err := s.loadIndex(ctx, progress); err != nil {
		return nil, false, err
	}

	if pl, ok := s.index[name]; ok {
		sendProgress(ctx, progress, existingPlaylistUpdate(&pl))
		return &pl, false, nil
	}

	pl, err := s.library.CreatePlaylist(ctx, name, s.opts.Description)
	if err != nil {
		return nil, false, err
	}
	s.index[name] = *pl
	s.logger.Info("created playlist", "name", pl.Name, "id", pl.ID)
	sendProgress(ctx, progress, createPlaylistUpdate(pl))

	if err := s.opts.Pacer.Wait(ctx); err != nil {
		return nil, false, err
	}
	return pl, true, nil
}

func (s *Synchronizer) loadIndex(ctx context.Context, progress chan<- ProgressUpdate) error {
	if s.index != nil {
		return nil
	}

	playlists, err := s.library.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list library playlists: %w", err)
	}

	s.index = make(map[string]models.Playlist, len(playlists))
	for _, pl := range playlists {
		s.index[pl.Name] = pl
	}
	sendProgress(ctx, progress, loadPlaylistsUpdate(len(playlists)))
	return nil
}

func (s *Synchronizer) recordUnresolved(playlist string, track models.SourceTrack) {
	if s.opts.UnresolvedLog == "" {
		return
	}
	if err := formatter.AppendRecord(s.opts.UnresolvedLog, formatter.UnresolvedTrack(playlist, track)); err != nil {
		s.logger.Warn("failed to record unresolved track", "path", s.opts.UnresolvedLog, "error", err)
	}
}

// AlbumOptions configures an [AlbumSynchronizer].
type AlbumOptions struct {
	UnresolvedLog string // path of the unresolved albums log
	Pacer         *Pacer
	Logger        *log.Logger
}

// AlbumSynchronizer saves liked albums to the destination library.
type AlbumSynchronizer struct {
	library services.AlbumLibrary
	opts    AlbumOptions
	logger  *log.Logger
}

// NewAlbumSynchronizer creates an [AlbumSynchronizer] for library.
func NewAlbumSynchronizer(library services.AlbumLibrary, opts AlbumOptions) *AlbumSynchronizer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &AlbumSynchronizer{library: library, opts: opts, logger: logger}
}

// SyncAlbums resolves each album in the catalog and adds it to the library.
//
// Search failures count as not found and add failures as failed; neither
// stops the run. Existing library contents are not checked.
func (a *AlbumSynchronizer) SyncAlbums(ctx context.Context, albums []models.AlbumRequest, progress chan<- ProgressUpdate) (*models.AlbumResult, error) {
	if a.library == nil {
		return nil, fmt.Errorf("%w: album library not initialized", shared.ErrServiceUnavailable)
	}

	result := &models.AlbumResult{NotFound: []models.AlbumRequest{}}
	total := len(albums)

	for i, album := range albums {
		step := i + 1
		result.Total++

		id, err := a.library.SearchAlbum(ctx, album.Album+" "+album.Artist)
		if err != nil {
			a.logger.Warn("album search failed", "album", album.Album, "artist", album.Artist, "error", err)
			id = ""
		}

		if id == "" {
			sendProgress(ctx, progress, albumNotFoundUpdate(step, total, album))
			a.recordUnresolved(album)
			result.NotFound = append(result.NotFound, album)
			result.Failed++
		} else {
			err := a.library.AddAlbums(ctx, id)
			sendProgress(ctx, progress, addAlbumUpdate(step, total, album, err))
			if err != nil {
				a.logger.Warn("add album failed", "album", album.Album, "id", id, "error", err)
				result.Failed++
			} else {
				result.Added++
			}
		}

		if err := a.opts.Pacer.Wait(ctx); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (a *AlbumSynchronizer) recordUnresolved(album models.AlbumRequest) {
	if a.opts.UnresolvedLog == "" {
		return
	}
	if err := formatter.AppendRecord(a.opts.UnresolvedLog, formatter.UnresolvedAlbum(album)); err != nil {
		a.logger.Warn("failed to record unresolved album", "path", a.opts.UnresolvedLog, "error", err)
	}
}
