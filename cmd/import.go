package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/amx/internal/formatter"
	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/repositories"
	"github.com/desertthunder/amx/internal/shared"
	"github.com/desertthunder/amx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// importEnv is the wiring shared by every export processed in one import.
//
// The synchronizer is shared so the playlist index survives across exports.
type importEnv struct {
	runs      *repositories.RunRepository // nil when the database is disabled
	playlists *tasks.Synchronizer
	albums    *tasks.AlbumSynchronizer
}

// Import synchronizes playlist exports and the liked albums export into the library.
//
// A failing export is logged and skipped; the command fails once every export
// has been attempted if any of them failed.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	playlistPath := cmd.String("playlist")
	albumsPath := cmd.String("albums")

	if playlistPath == "" && albumsPath == "" {
		r.writePlain("Usage: %s\n", cmd.UsageText)
		return fmt.Errorf("%w: --playlist or --albums is required", shared.ErrMissingArgument)
	}

	var exports []string
	if playlistPath != "" {
		var err error
		if exports, err = formatter.ListPlaylistExports(playlistPath); err != nil {
			return err
		}
		if len(exports) == 0 {
			r.logger.Warn("no playlist exports found", "path", playlistPath)
		}
	}

	library, err := r.appleMusic()
	if err != nil {
		return err
	}

	env, err := r.importEnv(library, cmd.Bool("cache"))
	if err != nil {
		return err
	}

	failed := 0
	for _, export := range exports {
		if err := r.importPlaylist(ctx, env, export); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			shared.WithLogger(r.logger, "file", export).Error("playlist import failed", "error", err)
			failed++
		}
	}

	attempted := len(exports)
	if albumsPath != "" {
		attempted++
		if err := r.importAlbums(ctx, env, albumsPath); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			shared.WithLogger(r.logger, "file", albumsPath).Error("albums import failed", "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d exports failed", failed, attempted)
	}
	return nil
}

func (r *Runner) importEnv(library Library, useCache bool) (*importEnv, error) {
	env := &importEnv{}
	var cache tasks.MatchCache

	db, err := r.database()
	switch {
	case err == nil:
		env.runs = repositories.NewRunRepository(db)
		if useCache {
			cache = repositories.NewMatchCache(repositories.NewMatchRepository(db))
		}
	case errors.Is(err, shared.ErrCacheDisabled):
		if useCache {
			r.logger.Warn("match cache requested but the database is disabled", "hint", "set [database] enabled = true")
		}
	default:
		return nil, err
	}

	pacer := tasks.NewPacer(r.config.Sync.Delay())
	matcher := tasks.NewMatcher(r.songSearcher(), tasks.MatcherOptions{
		LegacySubstringCase: r.config.Matching.LegacySubstringCase,
		Cache:               cache,
		Logger:              r.logger,
	})

	env.playlists = tasks.NewSynchronizer(library, matcher, tasks.SyncOptions{
		Description:   r.config.Sync.PlaylistDescription,
		UnresolvedLog: r.config.Sync.UnresolvedTracks,
		Pacer:         pacer,
		Logger:        r.logger,
	})
	env.albums = tasks.NewAlbumSynchronizer(library, tasks.AlbumOptions{
		UnresolvedLog: r.config.Sync.UnresolvedAlbums,
		Pacer:         pacer,
		Logger:        r.logger,
	})
	return env, nil
}

func (r *Runner) importPlaylist(ctx context.Context, env *importEnv, export string) error {
	run := r.startRun(env, models.RunKindPlaylist, export)

	r.writePlainHeader(formatter.PlaylistName(export))

	var result *models.SyncResult
	err := r.withProgress(func(progress chan<- tasks.ProgressUpdate) error {
		var err error
		result, err = env.playlists.SyncPlaylist(ctx, export, progress)
		return err
	})

	if result != nil {
		r.writePlain("%s", formatter.SyncSummary(result))
		if run != nil {
			run.SetTarget(result.Playlist.ID)
		}
	}

	if err != nil {
		r.finishRun(env, run, nil, err)
		return err
	}
	r.finishRun(env, run, &runTally{result.Total, result.Converted, result.Failed}, nil)
	return nil
}

func (r *Runner) importAlbums(ctx context.Context, env *importEnv, path string) error {
	run := r.startRun(env, models.RunKindAlbums, path)

	albums, err := formatter.ReadAlbumsExport(path)
	if err != nil {
		r.finishRun(env, run, nil, err)
		return err
	}

	r.writePlainHeader("Liked albums")

	var result *models.AlbumResult
	err = r.withProgress(func(progress chan<- tasks.ProgressUpdate) error {
		var err error
		result, err = env.albums.SyncAlbums(ctx, albums, progress)
		return err
	})

	if result != nil {
		r.writePlain("%s", formatter.AlbumSummary(result))
	}

	if err != nil {
		r.finishRun(env, run, nil, err)
		return err
	}
	r.finishRun(env, run, &runTally{result.Total, result.Added, result.Failed}, nil)
	return nil
}

type runTally struct {
	total, converted, failed int
}

// startRun records a running import in the history, or returns nil when history is off.
func (r *Runner) startRun(env *importEnv, kind models.RunKind, source string) *models.Run {
	if env.runs == nil {
		return nil
	}

	run := models.NewRun(kind, source)
	if err := env.runs.Create(run); err != nil {
		r.logger.Warn("failed to record run", "source", source, "error", err)
		return nil
	}
	return run
}

func (r *Runner) finishRun(env *importEnv, run *models.Run, tally *runTally, err error) {
	if run == nil {
		return
	}

	if err != nil {
		run.Fail(err)
	} else {
		run.Complete(tally.total, tally.converted, tally.failed)
	}

	if err := env.runs.Update(run); err != nil {
		r.logger.Warn("failed to update run", "id", run.ID(), "error", err)
	}
}
