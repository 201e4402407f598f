// Recipe CRUD against the /api/recipes endpoints.
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/VladimirStojanovski/MealStack/internal/models"
)

// RecipeService talks to the /api/recipes endpoints.
type RecipeService struct {
	api *APIService
}

// NewRecipeService creates a new RecipeService backed by the given API client.
func NewRecipeService(api *APIService) *RecipeService {
	return &RecipeService{api: api}
}

// List retrieves all recipes.
func (s *RecipeService) List(ctx context.Context) ([]models.Recipe, error) {
	resp, err := s.api.Get(ctx, "/api/recipes")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, backendError(resp)
	}

	var recipes []models.Recipe
	if err := json.Unmarshal(resp.Body, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse recipes: %w", err)
	}
	return recipes, nil
}

// Get retrieves a single recipe by ID.
func (s *RecipeService) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	resp, err := s.api.Get(ctx, fmt.Sprintf("/api/recipes/%d", id))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, backendError(resp)
	}

	var recipe models.Recipe
	if err := json.Unmarshal(resp.Body, &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}
	return &recipe, nil
}

// Create stores a new recipe and returns the backend's copy.
func (s *RecipeService) Create(ctx context.Context, recipe models.Recipe) (*models.Recipe, error) {
	payload, err := json.Marshal(recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipe: %w", err)
	}

	resp, err := s.api.Post(ctx, "/api/recipes", payload)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, backendError(resp)
	}

	var created models.Recipe
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse created recipe: %w", err)
	}
	return &created, nil
}

// Update replaces an existing recipe.
func (s *RecipeService) Update(ctx context.Context, id int64, recipe models.Recipe) (*models.Recipe, error) {
	payload, err := json.Marshal(recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipe: %w", err)
	}

	resp, err := s.api.Put(ctx, fmt.Sprintf("/api/recipes/%d", id), payload)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, backendError(resp)
	}

	var updated models.Recipe
	if err := json.Unmarshal(resp.Body, &updated); err != nil {
		return nil, fmt.Errorf("failed to parse updated recipe: %w", err)
	}
	return &updated, nil
}

// Delete removes a recipe by ID.
func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	resp, err := s.api.Delete(ctx, fmt.Sprintf("/api/recipes/%d", id))
	if err != nil {
		return err
	}
	if !resp.OK() {
		return backendError(resp)
	}
	return nil
}
