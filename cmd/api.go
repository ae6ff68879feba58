package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/amx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a raw authenticated GET request against the Apple Music API.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: API path is required", shared.ErrMissingArgument)
	}

	client, err := r.apiClient()
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := client.Get(ctx, path, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrUnexpectedStatus, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
