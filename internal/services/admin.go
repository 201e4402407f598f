// Admin board operations: user management and download-cookie refresh.
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/VladimirStojanovski/MealStack/internal/models"
)

// AdminService talks to the /api/admin endpoints and the admin-only user
// management endpoints under /api/auth.
type AdminService struct {
	api *APIService
}

// NewAdminService creates a new AdminService backed by the given API client.
func NewAdminService(api *APIService) *AdminService {
	return &AdminService{api: api}
}

// ListUsers retrieves all registered users from GET /api/admin.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.AdminUser, error) {
	resp, err := s.api.Get(ctx, "/api/admin")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, backendError(resp)
	}

	var users []models.AdminUser
	if err := json.Unmarshal(resp.Body, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users: %w", err)
	}
	return users, nil
}

// EditUser updates a user's username and email.
func (s *AdminService) EditUser(ctx context.Context, id int64, username, email string) error {
	payload, err := json.Marshal(map[string]string{"username": username, "email": email})
	if err != nil {
		return fmt.Errorf("failed to marshal user update: %w", err)
	}

	resp, err := s.api.Put(ctx, fmt.Sprintf("/api/auth/user/%d", id), payload)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return backendError(resp)
	}
	return nil
}

// DeleteUser removes a user account.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	resp, err := s.api.Delete(ctx, fmt.Sprintf("/api/auth/user/%d", id))
	if err != nil {
		return err
	}
	if !resp.OK() {
		return backendError(resp)
	}
	return nil
}

// RefreshCookie asks the backend to refresh its TikTok session cookie.
func (s *AdminService) RefreshCookie(ctx context.Context) (string, error) {
	resp, err := s.api.Post(ctx, "/api/admin/refresh-cookie", nil)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", backendError(resp)
	}
	return string(resp.Body), nil
}
