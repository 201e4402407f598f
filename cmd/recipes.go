package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/VladimirStojanovski/MealStack/internal/formatter"
	"github.com/VladimirStojanovski/MealStack/internal/models"
	"github.com/VladimirStojanovski/MealStack/internal/shared"
)

// RecipesList lists the user's saved recipes.
func (r *Runner) RecipesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/recipes"); err != nil {
		return err
	}

	recipes, err := r.recipes.List(ctx)
	if err != nil {
		return r.fail("failed to list recipes", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(recipes, cmd.Bool("pretty"))
	}

	if cmd.Bool("csv") {
		data, err := formatter.RecipesToCSV(recipes)
		if err != nil {
			return err
		}
		return r.writePlain("%s", string(data))
	}

	return r.writePlain("%s", string(formatter.RecipesToText(recipes)))
}

// RecipesGet shows a single recipe.
func (r *Runner) RecipesGet(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/recipes"); err != nil {
		return err
	}

	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	recipe, err := r.recipes.Get(ctx, id)
	if err != nil {
		return r.fail("failed to fetch recipe", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(recipe, true)
	}

	return r.writePlain("%s", string(formatter.RecipesToText([]models.Recipe{*recipe})))
}

// RecipesCreate saves a new recipe.
func (r *Runner) RecipesCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/recipes"); err != nil {
		return err
	}

	recipe := models.Recipe{
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		SourceURL:   cmd.String("url"),
		Tag:         cmd.String("tag"),
	}

	created, err := r.recipes.Create(ctx, recipe)
	if err != nil {
		return r.fail("failed to create recipe", err)
	}

	r.logger.Info("recipe created", "id", created.ID, "title", created.Title)
	return r.writePlain("✓ Recipe created: [%d] %s\n", created.ID, created.Title)
}

// RecipesUpdate updates an existing recipe.
func (r *Runner) RecipesUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/recipes"); err != nil {
		return err
	}

	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	recipe := models.Recipe{
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		SourceURL:   cmd.String("url"),
		Tag:         cmd.String("tag"),
	}

	updated, err := r.recipes.Update(ctx, id, recipe)
	if err != nil {
		return r.fail("failed to update recipe", err)
	}

	return r.writePlain("✓ Recipe updated: [%d] %s\n", updated.ID, updated.Title)
}

// RecipesDelete deletes a recipe.
func (r *Runner) RecipesDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/recipes"); err != nil {
		return err
	}

	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := r.recipes.Delete(ctx, id); err != nil {
		return r.fail("failed to delete recipe", err)
	}

	return r.writePlain("✓ Recipe %d deleted\n", id)
}

func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: an id argument is required", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id '%s'", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
