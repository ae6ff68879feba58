package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/shared"
	"github.com/desertthunder/amx/internal/tasks"
	"github.com/desertthunder/amx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Search runs the matcher for a single song and prints the chosen catalog id and rule.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: song title is required", shared.ErrMissingArgument)
	}

	track := models.SourceTrack{
		Title:  title,
		Artist: cmd.String("artist"),
		Album:  cmd.String("album"),
	}.Escaped()

	r.logger.Debug("searching catalog", "terms", tasks.SearchTerms(track))

	matcher := tasks.NewMatcher(r.songSearcher(), tasks.MatcherOptions{
		LegacySubstringCase: r.config.Matching.LegacySubstringCase,
		Logger:              r.logger,
	})
	result := matcher.Match(ctx, track)

	if !result.Found() {
		r.writePlain("%s | %s | %s => %s\n", track.Title, track.Artist, track.Album, ui.Warning("NOT FOUND"))
		return nil
	}
	r.writePlain("%s | %s | %s => %s %s\n", track.Title, track.Artist, track.Album, ui.Success(result.TrackID), ui.Muted("("+string(result.Rule)+")"))
	return nil
}
