package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/five82/clockctl/internal/clock"
)

// SessionHeader carries the per-connection session ID on the handshake.
const SessionHeader = "X-Clockctl-Session"

const (
	handshakeTimeout = 5 * time.Second
	maxFrameBytes    = 1 << 20
)

// State is the connectivity of the stream.
type State int

const (
	Disconnected State = iota
	Connecting
	Open
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	default:
		return "disconnected"
	}
}

// EventKind distinguishes state transitions from decoded frames.
type EventKind int

const (
	EventState EventKind = iota
	EventPatch
)

// Event is one item on the client's event sequence.
type Event struct {
	Kind    EventKind
	Session string

	// EventState
	State State
	Err   error // set when a transport error caused Disconnected

	// EventPatch: the decoded, unmerged record.
	Status clock.Status
	Shape  clock.Shape
	Type   string
}

// Dialer opens WebSocket connections. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Options configures a Client. The zero value is usable.
type Options struct {
	Logger *zap.Logger
	Dialer Dialer
}

// Client owns at most one streaming connection at a time and delivers its
// events, in arrival order, on a single channel.
type Client struct {
	log    *zap.Logger
	dialer Dialer
	events chan Event

	mu      sync.Mutex
	state   State
	current *session
}

type session struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
	conn   *websocket.Conn // guarded by Client.mu
}

// New constructs a disconnected client.
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		}
	}
	return &Client{
		log:    logger.Named("stream"),
		dialer: dialer,
		events: make(chan Event),
	}
}

// Events returns the channel every event is delivered on. It is never
// closed; consumers stop reading when they stop the client.
func (c *Client) Events() <-chan Event {
	return c.events
}

// State returns the current connectivity.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect replaces any existing connection with a new one to endpoint. It
// returns once the connection attempt has been started; progress is reported
// as events. Cancelling ctx has the same effect as Disconnect, minus the wait.
func (c *Client) Connect(ctx context.Context, endpoint string) error {
	if c == nil {
		return errors.New("client is nil")
	}
	if err := validateEndpoint(endpoint); err != nil {
		return err
	}

	c.Disconnect()

	connCtx, cancel := context.WithCancel(ctx)
	sess := &session{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	c.mu.Lock()
	c.current = sess
	c.state = Connecting
	c.mu.Unlock()

	go c.run(connCtx, sess, endpoint)
	return nil
}

// Disconnect closes the current connection, if any, and waits for its
// receive loop to exit. No event from that connection is delivered after
// Disconnect returns. It is safe to call at any time.
func (c *Client) Disconnect() {
	if c == nil {
		return
	}
	c.mu.Lock()
	sess := c.current
	c.current = nil
	c.state = Disconnected
	var conn *websocket.Conn
	if sess != nil {
		conn = sess.conn
		sess.conn = nil
	}
	c.mu.Unlock()

	if sess == nil {
		return
	}
	sess.cancel()
	if conn != nil {
		closeConn(conn)
	}
	<-sess.done
	c.log.Debug("stream disconnected", zap.String("session", sess.id))
}

func (c *Client) run(ctx context.Context, sess *session, endpoint string) {
	defer close(sess.done)
	defer sess.cancel()
	defer c.release(sess)

	log := c.log.With(zap.String("session", sess.id), zap.String("endpoint", endpoint))
	if !c.emit(ctx, Event{Kind: EventState, Session: sess.id, State: Connecting}) {
		return
	}

	header := http.Header{}
	header.Set(SessionHeader, sess.id)
	conn, resp, err := c.dialer.DialContext(ctx, endpoint, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		log.Warn("stream dial failed", zap.Error(err))
		c.fail(ctx, sess, fmt.Errorf("dial %s: %w", endpoint, err))
		return
	}
	conn.SetReadLimit(maxFrameBytes)

	c.mu.Lock()
	if c.current != sess {
		c.mu.Unlock()
		closeConn(conn)
		return
	}
	sess.conn = conn
	c.state = Open
	c.mu.Unlock()

	// Unblock ReadMessage when the caller's context ends.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	log.Info("stream open")
	if !c.emit(ctx, Event{Kind: EventState, Session: sess.id, State: Open}) {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("stream receive failed", zap.Error(err))
			c.fail(ctx, sess, fmt.Errorf("receive: %w", err))
			return
		}

		payload, err := clock.Decode(data)
		if err != nil {
			log.Debug("dropping frame", zap.Error(err), zap.Int("bytes", len(data)))
			continue
		}
		if !c.emit(ctx, Event{
			Kind:    EventPatch,
			Session: sess.id,
			Status:  payload.Status,
			Shape:   payload.Shape,
			Type:    payload.Type,
		}) {
			return
		}
	}
}

// fail marks sess disconnected, releases its socket and reports err. The
// session stays current until run returns so Disconnect can still wait on it.
func (c *Client) fail(ctx context.Context, sess *session, err error) {
	c.mu.Lock()
	if c.current != sess {
		c.mu.Unlock()
		return
	}
	conn := sess.conn
	sess.conn = nil
	c.state = Disconnected
	c.mu.Unlock()

	if conn != nil {
		closeConn(conn)
	}
	c.emit(ctx, Event{Kind: EventState, Session: sess.id, State: Disconnected, Err: err})
}

func (c *Client) release(sess *session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == sess {
		c.current = nil
		c.state = Disconnected
	}
}

// emit delivers ev unless the connection context ends first.
func (c *Client) emit(ctx context.Context, ev Event) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case c.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func closeConn(conn *websocket.Conn) {
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), deadline)
	_ = conn.Close()
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse stream endpoint: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("stream endpoint %q: scheme must be ws or wss", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("stream endpoint %q: missing host", endpoint)
	}
	return nil
}
