package main

import (
	"context"

	"github.com/desertthunder/amx/internal/formatter"
	"github.com/desertthunder/amx/internal/repositories"
	"github.com/urfave/cli/v3"
)

// History prints recorded import runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseHistoryFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	runs, err := repositories.NewRunRepository(db).List(map[string]any{
		"kind":  cmd.String("kind"),
		"limit": int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	if len(runs) == 0 && format == formatter.HistoryText {
		return r.writePlain("No runs recorded yet.\n")
	}

	data, err := formatter.FormatHistory(runs, format)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}
