package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// newServer upgrades every request, writes frames, then either closes or
// holds the connection open until the client goes away.
func newServer(t *testing.T, frames []string, hold bool, sessions chan<- string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if sessions != nil {
			sessions <- r.Header.Get(SessionHeader)
		}
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		if !hold {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func nextEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

func expectState(t *testing.T, c *Client, want State) Event {
	t.Helper()
	ev := nextEvent(t, c)
	if ev.Kind != EventState || ev.State != want {
		t.Fatalf("event = %+v, want state %v", ev, want)
	}
	return ev
}

func expectQuiet(t *testing.T, c *Client) {
	t.Helper()
	select {
	case ev := <-c.Events():
		t.Fatalf("unexpected event after disconnect: %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestClient_DeliversPatchesInOrder(t *testing.T) {
	sessions := make(chan string, 1)
	srv := newServer(t, []string{
		`{"type":"status","data":{"seconds":45}}`,
		`not json`,
		`{"foo":"bar"}`,
		`{"status":{"minutes":2}}`,
		`{"currentRound":3}`,
	}, false, sessions)

	c := New(Options{})
	t.Cleanup(c.Disconnect)
	if err := c.Connect(context.Background(), wsURL(srv)); err != nil {
		t.Fatalf("Connect error = %v", err)
	}

	first := expectState(t, c, Connecting)
	expectState(t, c, Open)
	if got := <-sessions; got != first.Session || got == "" {
		t.Fatalf("session header = %q, want %q", got, first.Session)
	}

	ev := nextEvent(t, c)
	if ev.Kind != EventPatch || ev.Status.Seconds != 45 || ev.Type != "status" {
		t.Fatalf("first patch = %+v, want seconds=45", ev)
	}
	ev = nextEvent(t, c)
	if ev.Kind != EventPatch || ev.Status.Minutes != 2 || ev.Status.Present().Len() != 1 {
		t.Fatalf("second patch = %+v, want minutes=2 only", ev)
	}
	ev = nextEvent(t, c)
	if ev.Kind != EventPatch || ev.Status.CurrentRound != 3 {
		t.Fatalf("third patch = %+v, want currentRound=3", ev)
	}

	ev = expectState(t, c, Disconnected)
	if ev.Err == nil {
		t.Fatalf("Disconnected event should carry the receive error")
	}
	if ev.Session != first.Session {
		t.Fatalf("session = %q, want %q", ev.Session, first.Session)
	}
	if c.State() != Disconnected {
		t.Fatalf("State() = %v, want disconnected", c.State())
	}
}

func TestClient_DisconnectStopsEvents(t *testing.T) {
	srv := newServer(t, []string{`{"seconds":1}`}, true, nil)

	c := New(Options{})
	if err := c.Connect(context.Background(), wsURL(srv)); err != nil {
		t.Fatalf("Connect error = %v", err)
	}
	expectState(t, c, Connecting)
	expectState(t, c, Open)
	if c.State() != Open {
		t.Fatalf("State() = %v, want open", c.State())
	}
	if ev := nextEvent(t, c); ev.Kind != EventPatch {
		t.Fatalf("event = %+v, want patch", ev)
	}

	c.Disconnect()
	if c.State() != Disconnected {
		t.Fatalf("State() = %v, want disconnected", c.State())
	}
	expectQuiet(t, c)

	// A second call is a no-op.
	c.Disconnect()
}

func TestClient_DisconnectWhileDeliveryBlocked(t *testing.T) {
	frames := make([]string, 50)
	for i := range frames {
		frames[i] = `{"seconds":1}`
	}
	srv := newServer(t, frames, true, nil)

	c := New(Options{})
	if err := c.Connect(context.Background(), wsURL(srv)); err != nil {
		t.Fatalf("Connect error = %v", err)
	}
	expectState(t, c, Connecting)
	expectState(t, c, Open)

	done := make(chan struct{})
	go func() {
		c.Disconnect()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Disconnect blocked while an event was pending")
	}
	expectQuiet(t, c)
}

func TestClient_ConnectReplacesConnection(t *testing.T) {
	srv := newServer(t, nil, true, nil)

	c := New(Options{})
	t.Cleanup(c.Disconnect)
	if err := c.Connect(context.Background(), wsURL(srv)); err != nil {
		t.Fatalf("Connect error = %v", err)
	}
	old := expectState(t, c, Connecting)
	expectState(t, c, Open)

	if err := c.Connect(context.Background(), wsURL(srv)); err != nil {
		t.Fatalf("second Connect error = %v", err)
	}
	fresh := expectState(t, c, Connecting)
	if fresh.Session == old.Session {
		t.Fatalf("reconnect reused session %q", old.Session)
	}
	expectState(t, c, Open)
}

func TestClient_DialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := wsURL(srv)
	srv.Close()

	c := New(Options{})
	t.Cleanup(c.Disconnect)
	if err := c.Connect(context.Background(), endpoint); err != nil {
		t.Fatalf("Connect error = %v", err)
	}
	expectState(t, c, Connecting)
	ev := expectState(t, c, Disconnected)
	if ev.Err == nil {
		t.Fatalf("dial failure should carry an error")
	}
}

func TestClient_ContextCancelStopsLoop(t *testing.T) {
	srv := newServer(t, nil, true, nil)

	c := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	if err := c.Connect(ctx, wsURL(srv)); err != nil {
		t.Fatalf("Connect error = %v", err)
	}
	expectState(t, c, Connecting)
	expectState(t, c, Open)

	cancel()
	done := make(chan struct{})
	go func() {
		c.Disconnect()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("receive loop did not stop after cancel")
	}
	expectQuiet(t, c)
}

func TestClient_ConnectRejectsBadEndpoint(t *testing.T) {
	c := New(Options{})
	for _, endpoint := range []string{"http://127.0.0.1:4040", "ws://", "://nope"} {
		if err := c.Connect(context.Background(), endpoint); err == nil {
			t.Fatalf("Connect(%q) error = nil, want failure", endpoint)
		}
	}
	if c.State() != Disconnected {
		t.Fatalf("State() = %v, want disconnected", c.State())
	}

	var nilClient *Client
	if err := nilClient.Connect(context.Background(), "ws://127.0.0.1:1"); err == nil {
		t.Fatalf("nil client Connect error = nil")
	}
}
