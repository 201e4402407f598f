package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/VladimirStojanovski/MealStack/internal/session"
	"github.com/VladimirStojanovski/MealStack/internal/shared"
)

// AuthLogin verifies credentials against the backend and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: session manager not initialized, run 'mealstack setup database'", shared.ErrServiceUnavailable)
	}

	username := cmd.String("username")
	password := cmd.String("password")

	r.logger.Info("logging in", "user", username)

	if err := r.session.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %s: %w", shared.UserMessage(err), err)
	}

	snap := r.session.Snapshot()
	r.writePlain("✓ Logged in as %s\n", snap.Session.User.Username)
	return nil
}

// AuthLogout clears the stored session. It succeeds even when the backend
// is unreachable.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: session manager not initialized", shared.ErrServiceUnavailable)
	}

	r.session.Logout()
	return r.writePlain("✓ Logged out\n")
}

// AuthRegister creates a new account. It does not log the new user in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: session manager not initialized", shared.ErrServiceUnavailable)
	}

	username := cmd.String("username")
	email := cmd.String("email")
	password := cmd.String("password")
	repeated := cmd.String("repeat-password")

	if err := r.session.Register(ctx, username, email, password, repeated); err != nil {
		return fmt.Errorf("registration failed: %s: %w", shared.UserMessage(err), err)
	}

	r.writePlain("✓ Account created\n")
	r.writePlain("Run 'mealstack auth login -u %s' to log in\n", username)
	return nil
}

// AuthWhoami shows the current session state.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: session manager not initialized", shared.ErrServiceUnavailable)
	}

	snap := r.session.Snapshot()

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"state":   snap.State.String(),
			"session": snap.Session,
		}, true)
	}

	if snap.State != session.StateAuthenticated {
		return r.writePlain("Not logged in\n")
	}

	user := snap.Session.User
	r.writePlain("User: %s\n", user.Username)
	if user.Email != "" {
		r.writePlain("Email: %s\n", user.Email)
	}
	if len(user.Roles) > 0 {
		r.writePlain("Roles: %v\n", user.Roles)
	}
	return nil
}
