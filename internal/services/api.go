// API service for making raw HTTP requests to the MealStack backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/VladimirStojanovski/MealStack/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// APIService provides methods for making raw HTTP requests to the backend.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     oauth2.TokenSource
}

// NewAPIService creates a new API service instance for the MealStack backend.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// WithTokenSource attaches a bearer credential source. Requests carry an
// Authorization header whenever the source yields a token; without one the
// request goes out unauthenticated and the backend decides.
func (a *APIService) WithTokenSource(ts oauth2.TokenSource) *APIService {
	a.tokens = ts
	return a
}

// WithRateLimit caps outgoing requests at rps requests per second.
func (a *APIService) WithRateLimit(rps float64) *APIService {
	if rps > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return a
}

// BaseURL returns the configured backend origin.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the response carries a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, data)
}

// Delete performs a DELETE request to the specified path and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodDelete, path, nil)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	fullURL := a.baseURL + path

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	a.authorize(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// authorize sets the bearer header when a token is available. A missing or
// failed token means the request goes out unauthenticated.
func (a *APIService) authorize(req *http.Request) {
	if a.tokens == nil {
		return
	}
	tok, err := a.tokens.Token()
	if err != nil || tok.AccessToken == "" {
		return
	}
	tok.SetAuthHeader(req)
}

// backendError translates a non-2xx response into an error carrying the
// backend's message. The payload may be a JSON object with a "message" field
// or a bare string body.
func backendError(resp *APIResponse) error {
	message := ""
	if obj, ok := resp.JSONData.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok {
			message = msg
		}
	} else if len(resp.Body) > 0 && !resp.IsJSON {
		message = string(resp.Body)
	}

	backendErr := &shared.BackendError{Status: resp.StatusCode, Message: message}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %w", shared.ErrAuth, backendErr)
	}
	return backendErr
}
