// Package stream implements the server-push progress channel for bulk
// download jobs.
//
// The backend reports per-item progress over a server-sent-events endpoint:
// named "progress" events carrying a JSON body, terminated by exactly one
// "complete" event or by disconnect. A [Stream] converts that wire format
// into a channel of [Event] values that closes after the terminal event, so
// consumers exit their receive loop cleanly instead of racing teardown
// callbacks.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/VladimirStojanovski/MealStack/internal/shared"
	"golang.org/x/oauth2"
)

// Progress is a single progress report from the backend.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Event is one message delivered by a [Stream]. Exactly one field is set:
// Progress for an intermediate report, Done for the terminal complete event,
// Err for a terminal failure (always wrapping [shared.ErrConnectivity] on
// disconnect).
type Event struct {
	Progress *Progress
	Done     bool
	Err      error
}

// Client opens progress streams against the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
}

// NewClient creates a stream client. The token source supplies the session
// token sent as a query parameter, matching the backend's SSE auth scheme.
func NewClient(baseURL string, httpClient *http.Client, tokens oauth2.TokenSource) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, tokens: tokens}
}

// Stream is one live subscription. Events are read from Events; the channel
// is closed after the terminal event. Close tears the subscription down and
// guarantees no event is delivered after it returns.
type Stream struct {
	events   chan Event
	done     chan struct{}
	finished chan struct{}
	once     sync.Once
	cancel   context.CancelFunc
}

// Open subscribes to the progress stream for the given URL batch via
// GET /api/auth/downloadUrls. It returns once the connection is established;
// event parsing continues in the background.
func (c *Client) Open(ctx context.Context, urls []string) (*Stream, error) {
	query := make(url.Values)
	for _, u := range urls {
		query.Add("urls", u)
	}
	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil && tok.AccessToken != "" {
			query.Set("token", tok.AccessToken)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	endpoint := c.baseURL + "/api/auth/downloadUrls?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", shared.ErrConnectivity, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: stream rejected with status %d", shared.ErrConnectivity, resp.StatusCode)
	}

	s := &Stream{
		events:   make(chan Event),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		cancel:   cancel,
	}
	go s.consume(resp.Body)
	return s, nil
}

// Events returns the event channel. It is closed after the terminal event.
func (s *Stream) Events() <-chan Event { return s.events }

// Close tears down the subscription. After Close returns no further event is
// delivered, even if one was already in flight. Safe to call multiple times.
func (s *Stream) Close() {
	s.once.Do(func() {
		close(s.done)
		s.cancel()
	})
	// An in-flight event may still win the race against done while Close
	// runs; waiting for the reader goroutine to exit moves any such delivery
	// strictly before Close returns.
	<-s.finished
}

// consume reads the SSE wire format and forwards decoded events until a
// terminal event, a read failure, or Close.
func (s *Stream) consume(body io.ReadCloser) {
	defer close(s.finished)
	defer body.Close()
	defer close(s.events)

	var eventName, data string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case line == "":
			// blank line dispatches the accumulated event
			if !s.dispatch(eventName, data) {
				return
			}
			eventName, data = "", ""
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data != "" {
				data += "\n"
			}
			data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}

	// Disconnect without a complete event, including scanner errors and a
	// Close-triggered context cancellation.
	err := scanner.Err()
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	s.emit(Event{Err: fmt.Errorf("%w: %v", shared.ErrConnectivity, err)})
}

// dispatch forwards one decoded SSE event. It reports false once the stream
// is finished and the consume loop should stop.
func (s *Stream) dispatch(eventName, data string) bool {
	switch eventName {
	case "progress":
		var p Progress
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			// malformed payloads are skipped, mirroring a tolerant reader
			return true
		}
		return s.emit(Event{Progress: &p})
	case "complete":
		s.emit(Event{Done: true})
		return false
	case "error":
		s.emit(Event{Err: &shared.BackendError{Message: data}})
		return false
	default:
		return true
	}
}

// emit delivers ev unless the stream was closed first.
func (s *Stream) emit(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}
