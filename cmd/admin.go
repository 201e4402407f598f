package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/VladimirStojanovski/MealStack/internal/formatter"
	"github.com/VladimirStojanovski/MealStack/internal/models"
)

// AdminUsers lists registered users with their download counts.
func (r *Runner) AdminUsers(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/admin", models.RoleAdmin); err != nil {
		return err
	}

	users, err := r.admin.ListUsers(ctx)
	if err != nil {
		return r.fail("failed to list users", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	return r.writePlain("%s", string(formatter.UsersToText(users)))
}

// AdminEdit updates a user's username and email.
func (r *Runner) AdminEdit(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/admin", models.RoleAdmin); err != nil {
		return err
	}

	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	username := cmd.String("username")
	email := cmd.String("email")

	if err := r.admin.EditUser(ctx, id, username, email); err != nil {
		return r.fail("failed to edit user", err)
	}

	r.logger.Info("user updated", "id", id, "username", username)
	return r.writePlain("✓ User %d updated\n", id)
}

// AdminDelete removes a user account.
func (r *Runner) AdminDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/admin", models.RoleAdmin); err != nil {
		return err
	}

	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := r.admin.DeleteUser(ctx, id); err != nil {
		return r.fail("failed to delete user", err)
	}

	return r.writePlain("✓ User %d deleted\n", id)
}

// AdminRefreshCookie asks the backend to refresh its TikTok session cookie.
func (r *Runner) AdminRefreshCookie(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/admin", models.RoleAdmin); err != nil {
		return err
	}

	message, err := r.admin.RefreshCookie(ctx)
	if err != nil {
		return r.fail("failed to refresh cookie", err)
	}

	if message == "" {
		message = "Cookie refreshed"
	}
	return r.writePlain("✓ %s\n", message)
}
