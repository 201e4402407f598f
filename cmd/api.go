package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/VladimirStojanovski/MealStack/internal/shared"
)

// APIGet performs a direct GET against the backend and prints the response.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: a path argument is required", shared.ErrMissingArgument)
	}

	r.logger.Debug("direct GET", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %s: %w", shared.UserMessage(err), err)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", string(resp.Body))
}

// APIPost performs a direct POST with a JSON body against the backend.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: a path argument is required", shared.ErrMissingArgument)
	}
	data := cmd.String("data")

	r.logger.Debug("direct POST", "path", path, "bytes", len(data))

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("request failed: %s: %w", shared.UserMessage(err), err)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}
	return r.writePlain("%s\n", string(resp.Body))
}
