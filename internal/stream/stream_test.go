package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/VladimirStojanovski/MealStack/internal/shared"
)

// sseHandler writes the given frames as an event stream and returns.
func sseHandler(t *testing.T, frames ...string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer does not support flushing")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
	}
}

func TestClientOpen(t *testing.T) {
	t.Run("Sends URLs And Token As Query Parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/auth/downloadUrls" {
				t.Errorf("expected path /api/auth/downloadUrls, got %s", r.URL.Path)
			}
			if got := r.URL.Query()["urls"]; len(got) != 2 {
				t.Errorf("expected 2 urls params, got %v", got)
			}
			if got := r.URL.Query().Get("token"); got != "stream-token" {
				t.Errorf("expected token param, got %q", got)
			}
			if got := r.Header.Get("Accept"); got != "text/event-stream" {
				t.Errorf("expected SSE accept header, got %q", got)
			}

			sseHandler(t, "event: complete\ndata: done\n\n")(w, r)
		}))
		defer server.Close()

		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "stream-token"})
		client := NewClient(server.URL, nil, ts)

		s, err := client.Open(context.Background(), []string{"https://t.example/1", "https://t.example/2"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer s.Close()

		ev := <-s.Events()
		if !ev.Done {
			t.Errorf("expected terminal complete event, got %+v", ev)
		}
	})

	t.Run("Non-200 Response Fails With Connectivity Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil, nil)
		_, err := client.Open(context.Background(), []string{"https://t.example/1"})

		if !errors.Is(err, shared.ErrConnectivity) {
			t.Errorf("expected ErrConnectivity, got %v", err)
		}
	})

	t.Run("Unreachable Server Fails With Connectivity Error", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", nil, nil)
		_, err := client.Open(context.Background(), []string{"https://t.example/1"})

		if !errors.Is(err, shared.ErrConnectivity) {
			t.Errorf("expected ErrConnectivity, got %v", err)
		}
	})
}

func TestStreamEvents(t *testing.T) {
	t.Run("Progress Events Arrive In Order Then Complete", func(t *testing.T) {
		server := httptest.NewServer(sseHandler(t,
			"event: progress\ndata: {\"current\":1,\"total\":3,\"message\":\"video 1\"}\n\n",
			"event: progress\ndata: {\"current\":2,\"total\":3,\"message\":\"video 2\"}\n\n",
			"event: complete\ndata: all done\n\n",
		))
		defer server.Close()

		client := NewClient(server.URL, nil, nil)
		s, err := client.Open(context.Background(), []string{"https://t.example/1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer s.Close()

		var got []Event
		for ev := range s.Events() {
			got = append(got, ev)
		}

		if len(got) != 3 {
			t.Fatalf("expected 3 events, got %d: %+v", len(got), got)
		}
		if got[0].Progress == nil || got[0].Progress.Current != 1 {
			t.Errorf("expected first progress current=1, got %+v", got[0])
		}
		if got[1].Progress == nil || got[1].Progress.Current != 2 {
			t.Errorf("expected second progress current=2, got %+v", got[1])
		}
		if !got[2].Done {
			t.Errorf("expected terminal complete, got %+v", got[2])
		}
	})

	t.Run("Malformed Progress Payload Is Skipped", func(t *testing.T) {
		server := httptest.NewServer(sseHandler(t,
			"event: progress\ndata: this is not json\n\n",
			"event: progress\ndata: {\"current\":1,\"total\":1}\n\n",
			"event: complete\ndata: done\n\n",
		))
		defer server.Close()

		client := NewClient(server.URL, nil, nil)
		s, err := client.Open(context.Background(), []string{"https://t.example/1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer s.Close()

		var progressCount int
		for ev := range s.Events() {
			if ev.Progress != nil {
				progressCount++
			}
		}
		if progressCount != 1 {
			t.Errorf("expected malformed payload to be skipped, got %d progress events", progressCount)
		}
	})

	t.Run("Unknown Event Names Are Ignored", func(t *testing.T) {
		server := httptest.NewServer(sseHandler(t,
			"event: heartbeat\ndata: ping\n\n",
			"event: complete\ndata: done\n\n",
		))
		defer server.Close()

		client := NewClient(server.URL, nil, nil)
		s, err := client.Open(context.Background(), []string{"https://t.example/1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer s.Close()

		var got []Event
		for ev := range s.Events() {
			got = append(got, ev)
		}
		if len(got) != 1 || !got[0].Done {
			t.Errorf("expected only the complete event, got %+v", got)
		}
	})

	t.Run("Error Event Carries Backend Message", func(t *testing.T) {
		server := httptest.NewServer(sseHandler(t,
			"event: error\ndata: Download failed upstream\n\n",
		))
		defer server.Close()

		client := NewClient(server.URL, nil, nil)
		s, err := client.Open(context.Background(), []string{"https://t.example/1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer s.Close()

		ev := <-s.Events()
		if ev.Err == nil {
			t.Fatalf("expected error event, got %+v", ev)
		}

		var backendErr *shared.BackendError
		if !errors.As(ev.Err, &backendErr) || backendErr.Message != "Download failed upstream" {
			t.Errorf("expected backend error with message, got %v", ev.Err)
		}

		if _, ok := <-s.Events(); ok {
			t.Error("expected channel to close after the terminal error")
		}
	})

	t.Run("Disconnect Without Complete Is A Connectivity Error", func(t *testing.T) {
		server := httptest.NewServer(sseHandler(t,
			"event: progress\ndata: {\"current\":1,\"total\":2}\n\n",
		))
		defer server.Close()

		client := NewClient(server.URL, nil, nil)
		s, err := client.Open(context.Background(), []string{"https://t.example/1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer s.Close()

		var last Event
		for ev := range s.Events() {
			last = ev
		}
		if last.Err == nil || !errors.Is(last.Err, shared.ErrConnectivity) {
			t.Errorf("expected terminal connectivity error, got %+v", last)
		}
	})
}

func TestStreamClose(t *testing.T) {
	t.Run("No Delivery After Close Returns", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			flusher := w.(http.Flusher)
			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(http.StatusOK)
			for i := 0; ; i++ {
				if _, err := fmt.Fprintf(w, "event: progress\ndata: {\"current\":%d,\"total\":100}\n\n", i); err != nil {
					return
				}
				flusher.Flush()
				select {
				case <-r.Context().Done():
					return
				case <-time.After(5 * time.Millisecond):
				}
			}
		}))
		defer server.Close()

		client := NewClient(server.URL, nil, nil)
		s, err := client.Open(context.Background(), []string{"https://t.example/1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// consume one event, then tear down mid-stream
		<-s.Events()
		s.Close()

		for ev := range s.Events() {
			t.Errorf("received event after Close returned: %+v", ev)
		}
	})

	t.Run("Close Is Idempotent", func(t *testing.T) {
		server := httptest.NewServer(sseHandler(t, "event: complete\ndata: done\n\n"))
		defer server.Close()

		client := NewClient(server.URL, nil, nil)
		s, err := client.Open(context.Background(), []string{"https://t.example/1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		s.Close()
		s.Close()
	})
}
