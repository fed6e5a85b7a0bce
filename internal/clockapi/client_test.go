package clockapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/clockctl/internal/clock"
)

type recorded struct {
	method      string
	path        string
	body        string
	contentType string
	userAgent   string
}

type recorder struct {
	mu       sync.Mutex
	requests []recorded
}

func (r *recorder) last() recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		return recorded{}
	}
	return r.requests[len(r.requests)-1]
}

func newRecordingServer(t *testing.T, statusBody string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			userAgent:   r.Header.Get("User-Agent"),
		})
		rec.mu.Unlock()

		if r.URL.Path == "/api/status" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(statusBody))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultAPIBase {
		t.Fatalf("base = %q, want %q", u.String(), defaultAPIBase)
	}

	u, err = parseBaseURL("http://example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != "http://example.com:1234/api" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("10.0.0.2:4040")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "10.0.0.2:4040" {
		t.Fatalf("bare host parsed as %q", u.String())
	}

	for _, bad := range []string{"ws://host:4040", "http://"} {
		if _, err := parseBaseURL(bad); err == nil {
			t.Fatalf("parseBaseURL(%q) error = nil", bad)
		}
	}
}

func TestClient_FetchStatusAcceptsBothShapes(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`{"status":{"minutes":2,"seconds":10,"is_running":true}}`,
		`{"minutes":2,"seconds":10,"isRunning":true}`,
	} {
		server, rec := newRecordingServer(t, body)
		c, err := NewClient(server.URL+"/api", nil)
		if err != nil {
			t.Fatalf("NewClient returned error: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		status, err := c.FetchStatus(ctx)
		cancel()
		if err != nil {
			t.Fatalf("FetchStatus(%s) returned error: %v", body, err)
		}
		if status.Minutes != 2 || status.Seconds != 10 || !status.IsRunning {
			t.Fatalf("FetchStatus(%s) = %+v", body, status)
		}
		if !status.Has(clock.FieldSeconds) {
			t.Fatalf("FetchStatus should keep presence information")
		}
		got := rec.last()
		if got.method != http.MethodGet || got.path != "/api/status" {
			t.Fatalf("request = %s %s, want GET /api/status", got.method, got.path)
		}
		if !strings.HasPrefix(got.userAgent, "clockctl/") {
			t.Fatalf("User-Agent = %q, want clockctl/*", got.userAgent)
		}
	}
}

func TestClient_CommandsPostToPaths(t *testing.T) {
	t.Parallel()

	server, rec := newRecordingServer(t, `{}`)
	c, err := NewClient(server.URL+"/api/", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	for _, cmd := range Commands {
		if err := c.Send(ctx, cmd); err != nil {
			t.Fatalf("Send(%s) returned error: %v", cmd, err)
		}
		got := rec.last()
		if got.method != http.MethodPost || got.path != "/api/"+string(cmd) {
			t.Fatalf("Send(%s) request = %s %s", cmd, got.method, got.path)
		}
		if got.body != "" {
			t.Fatalf("Send(%s) body = %q, want empty", cmd, got.body)
		}
	}

	tests := []struct {
		name string
		call func() error
		path string
		want map[string]any
	}{
		{
			name: "set-time",
			call: func() error { return c.SetTime(ctx, 3, 30) },
			path: "/api/set-time",
			want: map[string]any{"minutes": 3.0, "seconds": 30.0},
		},
		{
			name: "set-rounds",
			call: func() error { return c.SetRounds(ctx, 12) },
			path: "/api/set-rounds",
			want: map[string]any{"rounds": 12.0},
		},
		{
			name: "set-between-rounds",
			call: func() error { return c.SetBetweenRounds(ctx, true, 60) },
			path: "/api/set-between-rounds",
			want: map[string]any{"enabled": true, "time": 60.0},
		},
	}
	for _, tc := range tests {
		if err := tc.call(); err != nil {
			t.Fatalf("%s returned error: %v", tc.name, err)
		}
		got := rec.last()
		if got.path != tc.path || got.contentType != "application/json" {
			t.Fatalf("%s request = %s (%s)", tc.name, got.path, got.contentType)
		}
		var body map[string]any
		if err := json.Unmarshal([]byte(got.body), &body); err != nil {
			t.Fatalf("%s body %q: %v", tc.name, got.body, err)
		}
		if len(body) != len(tc.want) {
			t.Fatalf("%s body = %v, want %v", tc.name, body, tc.want)
		}
		for key, want := range tc.want {
			if body[key] != want {
				t.Fatalf("%s body[%s] = %v, want %v", tc.name, key, body[key], want)
			}
		}
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/status":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/start":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchStatus(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchStatus error = %v, want decode response error", err)
	}
	if !errors.Is(err, clock.ErrMalformedPayload) {
		t.Fatalf("FetchStatus error = %v, want ErrMalformedPayload", err)
	}

	err = c.Send(context.Background(), Start)
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Send error = %v, want status 500 error", err)
	}
}

func TestClient_StatusNotFound(t *testing.T) {
	t.Parallel()

	server, _ := newRecordingServer(t, `{"ok":true}`)
	c, err := NewClient(server.URL+"/api", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchStatus(context.Background())
	if !errors.Is(err, clock.ErrStatusNotFound) {
		t.Fatalf("FetchStatus error = %v, want ErrStatusNotFound", err)
	}
}

func TestClient_RejectsUnknownCommandAndNilClient(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.Send(context.Background(), Command("explode")); err == nil {
		t.Fatalf("Send(explode) returned nil error")
	}

	var nilClient *Client
	if _, err := nilClient.FetchStatus(context.Background()); err == nil {
		t.Fatalf("nil FetchStatus returned nil error")
	}
	if err := nilClient.SetRounds(context.Background(), 1); err == nil {
		t.Fatalf("nil SetRounds returned nil error")
	}
}

func TestParseCommand(t *testing.T) {
	if cmd, ok := ParseCommand(" Next-Round "); !ok || cmd != NextRound {
		t.Fatalf("ParseCommand = %q, %v; want next-round", cmd, ok)
	}
	if _, ok := ParseCommand("set-time"); ok {
		t.Fatalf("ParseCommand(set-time) should not match a parameterless command")
	}
}
