package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/five82/clockctl/internal/clock"
	"github.com/five82/clockctl/internal/clockapi"
	"github.com/five82/clockctl/internal/state"
	"github.com/five82/clockctl/internal/stream"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

// fakeStream replays a scripted event sequence per connection.
type fakeStream struct {
	events     chan stream.Event
	script     func(n int, send func(stream.Event) bool)
	connectErr error

	mu       sync.Mutex
	connects int
	cancel   context.CancelFunc
}

func newFakeStream(script func(n int, send func(stream.Event) bool)) *fakeStream {
	return &fakeStream{events: make(chan stream.Event), script: script}
}

func (f *fakeStream) Connect(ctx context.Context, _ string) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.Disconnect()

	sctx, cancel := context.WithCancel(ctx)
	f.mu.Lock()
	f.connects++
	n := f.connects
	f.cancel = cancel
	f.mu.Unlock()

	go f.script(n, func(ev stream.Event) bool {
		select {
		case f.events <- ev:
			return true
		case <-sctx.Done():
			return false
		}
	})
	return nil
}

func (f *fakeStream) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *fakeStream) Events() <-chan stream.Event { return f.events }

func (f *fakeStream) Connects() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects
}

type fakeFetcher struct {
	calls  atomic.Int32
	status clock.Status
	err    error
}

func (f *fakeFetcher) FetchStatus(context.Context) (clock.Status, error) {
	f.calls.Add(1)
	return f.status, f.err
}

func decode(t *testing.T, raw string) clock.Status {
	t.Helper()
	status, err := clock.Extract([]byte(raw))
	if err != nil {
		t.Fatalf("Extract(%s) error = %v", raw, err)
	}
	return status
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestSupervisor_RunStreamReconnectsAndAppliesPatches(t *testing.T) {
	patch := decode(t, `{"type":"status","data":{"minutes":2,"currentRound":3}}`)
	fs := newFakeStream(func(n int, send func(stream.Event) bool) {
		for _, st := range []stream.State{stream.Connecting, stream.Open} {
			if !send(stream.Event{Kind: stream.EventState, State: st}) {
				return
			}
		}
		if n > 1 {
			return
		}
		if !send(stream.Event{Kind: stream.EventPatch, Status: patch}) {
			return
		}
		send(stream.Event{Kind: stream.EventState, State: stream.Disconnected, Err: errors.New("reset by peer")})
	})

	store := state.NewStore(state.Options{})
	t.Cleanup(store.Close)
	sup := &Supervisor{Stream: fs, Store: store, ReconnectBase: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sup.RunStream(ctx) }()

	eventually(t, "reconnect", func() bool {
		snap := store.Snapshot()
		return fs.Connects() >= 2 && snap.Connected() && snap.Status.CurrentRound == 3
	})
	if snap := store.Snapshot(); snap.ConsecutiveFailures != 0 || snap.Status.Minutes != 2 {
		t.Fatalf("snapshot = %+v, want minutes 2 and no failures", snap)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunStream() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("RunStream did not return after cancel")
	}
}

func TestSupervisor_RunStreamConnectError(t *testing.T) {
	fs := newFakeStream(nil)
	fs.connectErr = errors.New("unsupported scheme")
	store := state.NewStore(state.Options{})
	t.Cleanup(store.Close)

	sup := &Supervisor{Stream: fs, Store: store}
	err := sup.RunStream(context.Background())
	if err == nil || !errors.Is(err, fs.connectErr) {
		t.Fatalf("RunStream() error = %v, want wrapped connect error", err)
	}
}

func TestSupervisor_RunPollerOnlyWhileStreamDown(t *testing.T) {
	fetcher := &fakeFetcher{status: decode(t, `{"status":{"currentRound":4,"totalRounds":10}}`)}
	store := state.NewStore(state.Options{})
	t.Cleanup(store.Close)
	sup := &Supervisor{Store: store, Fetcher: fetcher, PollInterval: 5 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sup.RunPoller(ctx) }()

	eventually(t, "polled status", func() bool {
		return fetcher.calls.Load() >= 3 && store.Snapshot().Status.CurrentRound == 4
	})

	store.SetConnection(stream.Open, nil)
	before := fetcher.calls.Load()
	time.Sleep(50 * time.Millisecond)
	// One poll may already be in flight when the stream opens.
	if after := fetcher.calls.Load(); after > before+1 {
		t.Fatalf("poller fetched %d times while the stream was open", after-before)
	}
}

func TestSupervisor_RunPollerRecordsFailures(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	store := state.NewStore(state.Options{})
	t.Cleanup(store.Close)
	sup := &Supervisor{Store: store, Fetcher: fetcher, PollInterval: 5 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sup.RunPoller(ctx) }()

	eventually(t, "offline", func() bool { return store.Snapshot().IsOffline() })
	if snap := store.Snapshot(); snap.HasStatus || snap.LastError == nil {
		t.Fatalf("snapshot = %+v, want error and no status", snap)
	}
}

func TestSupervisor_EndToEnd(t *testing.T) {
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":{"current_round":2,"total_rounds":5}}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"status","data":{"minutes":1,"seconds":5}}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api, err := clockapi.NewClient(srv.URL+"/api", nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	store := state.NewStore(state.Options{})
	t.Cleanup(store.Close)
	sup := &Supervisor{
		Stream:       stream.New(stream.Options{}),
		Store:        store,
		Fetcher:      api,
		Endpoint:     "ws" + strings.TrimPrefix(srv.URL, "http") + "/",
		PollInterval: time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = sup.RunStream(ctx) }()
	go func() { defer wg.Done(); _ = sup.RunPoller(ctx) }()

	eventually(t, "merged snapshot", func() bool {
		s := store.Snapshot()
		return s.Connected() && s.Status.CurrentRound == 2 && s.Status.TotalRounds == 5 &&
			s.Status.Minutes == 1 && s.Status.Seconds == 5
	})

	cancel()
	wg.Wait()
}
