// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/VladimirStojanovski/MealStack/internal/models"
)

// MockAuthAPI is a test double for [session.AuthAPI]
type MockAuthAPI struct {
	LoginFunc    func(ctx context.Context, username, password string) (*models.Session, error)
	RegisterFunc func(ctx context.Context, username, email, password, repeatedPassword string) error
}

func (m *MockAuthAPI) Login(ctx context.Context, username, password string) (*models.Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return &models.Session{
		Token: "test-token",
		User:  models.User{ID: "1", Username: username, Roles: []string{"ROLE_USER"}},
	}, nil
}

func (m *MockAuthAPI) Register(ctx context.Context, username, email, password, repeatedPassword string) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, email, password, repeatedPassword)
	}
	return nil
}

// MockTokenStore is an in-memory test double for [session.TokenStore]
type MockTokenStore struct {
	mu      sync.Mutex
	session *models.Session

	LoadErr  error
	SaveErr  error
	ClearErr error

	SaveCalls  int
	ClearCalls int
}

func (m *MockTokenStore) Load() (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.session, nil
}

func (m *MockTokenStore) Save(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.session = s
	return nil
}

func (m *MockTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.session = nil
	return nil
}

// Stored returns the currently persisted session.
func (m *MockTokenStore) Stored() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
