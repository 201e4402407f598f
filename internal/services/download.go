// Bulk video download submission and download tracking.
package services

import (
	"context"
	"encoding/json"
	"fmt"
)

// DownloadService submits bulk download jobs and reports download counts.
type DownloadService struct {
	api *APIService
}

// NewDownloadService creates a new DownloadService backed by the given API client.
func NewDownloadService(api *APIService) *DownloadService {
	return &DownloadService{api: api}
}

// SubmitArchive posts the URL batch to POST /api/download/tiktok and returns
// the resulting zip archive bytes. The backend processes the whole batch
// before responding; per-item progress arrives separately on the SSE stream.
func (s *DownloadService) SubmitArchive(ctx context.Context, urls []string) ([]byte, error) {
	payload, err := json.Marshal(urls)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal url list: %w", err)
	}

	resp, err := s.api.Post(ctx, "/api/download/tiktok", payload)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, backendError(resp)
	}

	return resp.Body, nil
}

// CountDownloads records the batch size against the user's account via
// POST /api/auth/count-downloads and returns the backend-assigned user UUID.
func (s *DownloadService) CountDownloads(ctx context.Context, count int) (string, error) {
	payload, err := json.Marshal(map[string]int{"count": count})
	if err != nil {
		return "", fmt.Errorf("failed to marshal count: %w", err)
	}

	resp, err := s.api.Post(ctx, "/api/auth/count-downloads", payload)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", backendError(resp)
	}

	var body struct {
		UserUUID string `json:"userUUID"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", fmt.Errorf("failed to parse count-downloads response: %w", err)
	}
	return body.UserUUID, nil
}
