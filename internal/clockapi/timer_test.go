package clockapi

import (
	"context"
	"strings"
	"testing"
)

func TestApplyTimer_PostsInOrder(t *testing.T) {
	server, rec := newRecordingServer(t, `{}`)
	client, err := NewClient(server.URL+"/api", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	timer := Timer{Minutes: 2, Seconds: 30, Rounds: 5, BetweenRoundsEnabled: true, BetweenRoundsTime: 45}
	if err := ApplyTimer(context.Background(), client, timer); err != nil {
		t.Fatalf("ApplyTimer returned error: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	want := []struct{ path, body string }{
		{"/api/set-time", `{"minutes":2,"seconds":30}`},
		{"/api/set-rounds", `{"rounds":5}`},
		{"/api/set-between-rounds", `{"enabled":true,"time":45}`},
	}
	if len(rec.requests) != len(want) {
		t.Fatalf("got %d requests, want %d", len(rec.requests), len(want))
	}
	for i, w := range want {
		got := rec.requests[i]
		if got.path != w.path || strings.TrimSpace(got.body) != w.body {
			t.Fatalf("request %d = %s %s, want %s %s", i, got.path, got.body, w.path, w.body)
		}
	}
}

func TestApplyTimer_StopsAtFirstFailure(t *testing.T) {
	server, rec := newRecordingServer(t, `{}`)
	client, err := NewClient(server.URL+"/api", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	server.Close()

	err = ApplyTimer(context.Background(), client, Timer{Minutes: 1, Rounds: 1})
	if err == nil || !strings.HasPrefix(err.Error(), "set time:") {
		t.Fatalf("ApplyTimer error = %v, want set time failure", err)
	}
	if got := len(rec.requests); got != 0 {
		t.Fatalf("got %d requests after failure, want 0", got)
	}

	if err := ApplyTimer(context.Background(), nil, Timer{}); err == nil {
		t.Fatalf("ApplyTimer(nil) returned nil error")
	}
}
