// Auth endpoints: credential login and account registration.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/VladimirStojanovski/MealStack/internal/models"
	"github.com/VladimirStojanovski/MealStack/internal/shared"
)

// AuthService talks to the /api/auth endpoints.
type AuthService struct {
	api *APIService
}

// NewAuthService creates a new AuthService backed by the given API client.
func NewAuthService(api *APIService) *AuthService {
	return &AuthService{api: api}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeatedPassword"`
}

// loginResponse mirrors the backend's login payload.
type loginResponse struct {
	AccessToken string   `json:"accessToken"`
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
}

// Login verifies credentials against POST /api/auth/login and returns the
// established session. Failed credentials surface as [shared.ErrAuth].
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	resp, err := s.api.Post(ctx, "/api/auth/login", payload)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, backendError(resp)
	}

	var lr loginResponse
	if err := json.Unmarshal(resp.Body, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	if lr.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response missing access token", shared.ErrAuth)
	}

	return &models.Session{
		Token: lr.AccessToken,
		User: models.User{
			ID:       strconv.FormatInt(lr.ID, 10),
			Username: lr.Username,
			Email:    lr.Email,
			Roles:    lr.Roles,
		},
	}, nil
}

// Register creates a new account via POST /api/auth/register. It does not
// establish a session; the caller logs in separately.
func (s *AuthService) Register(ctx context.Context, username, email, password, repeatedPassword string) error {
	payload, err := json.Marshal(registerRequest{
		Username:         username,
		Email:            email,
		Password:         password,
		RepeatedPassword: repeatedPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal register request: %w", err)
	}

	resp, err := s.api.Post(ctx, "/api/auth/register", payload)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return backendError(resp)
	}

	return nil
}
