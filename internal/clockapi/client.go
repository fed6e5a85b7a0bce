package clockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/clockctl/internal/clock"
)

// StatusFetcher fetches one status record over HTTP.
type StatusFetcher interface {
	FetchStatus(ctx context.Context) (clock.Status, error)
}

// Commander issues clock commands. Responses are not decoded; the next
// status push is the acknowledgement.
type Commander interface {
	Send(ctx context.Context, cmd Command) error
	SetTime(ctx context.Context, minutes, seconds int) error
	SetRounds(ctx context.Context, rounds int) error
	SetBetweenRounds(ctx context.Context, enabled bool, seconds int) error
}

// Ensure Client implements both interfaces at compile time.
var (
	_ StatusFetcher = (*Client)(nil)
	_ Commander     = (*Client)(nil)
)

// Command names a parameterless POST endpoint.
type Command string

const (
	Start         Command = "start"
	Pause         Command = "pause"
	Reset         Command = "reset"
	ResetTime     Command = "reset-time"
	ResetRounds   Command = "reset-rounds"
	NextRound     Command = "next-round"
	PreviousRound Command = "previous-round"
)

// Commands lists the parameterless commands in display order.
var Commands = []Command{Start, Pause, Reset, ResetTime, ResetRounds, NextRound, PreviousRound}

// ParseCommand resolves a command name such as "next-round".
func ParseCommand(name string) (Command, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, cmd := range Commands {
		if string(cmd) == name {
			return cmd, true
		}
	}
	return "", false
}

// Client talks to the clock server's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       *zap.Logger
}

const (
	defaultAPIBase   = "http://127.0.0.1:4040/api"
	defaultUserAgent = "clockctl/0.1"
	requestTimeout   = 5 * time.Second
	maxResponseBytes = 1 << 20
)

// NewClient builds a Client for apiBase, e.g. http://127.0.0.1:4040/api. A
// bare host:port is accepted and /api is not appended to it.
func NewClient(apiBase string, logger *zap.Logger) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		log:       logger.Named("api"),
	}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchStatus retrieves the current status. The body may be enveloped or a
// bare record; see clock.Extract.
func (c *Client) FetchStatus(ctx context.Context) (clock.Status, error) {
	if c == nil {
		return clock.Status{}, fmt.Errorf("client is nil")
	}
	body, err := c.do(ctx, http.MethodGet, "status", nil)
	if err != nil {
		return clock.Status{}, err
	}
	status, err := clock.Extract(body)
	if err != nil {
		return clock.Status{}, fmt.Errorf("decode response: %w", err)
	}
	return status, nil
}

// Send posts a parameterless command.
func (c *Client) Send(ctx context.Context, cmd Command) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if _, ok := ParseCommand(string(cmd)); !ok {
		return fmt.Errorf("unknown command %q", cmd)
	}
	_, err := c.do(ctx, http.MethodPost, string(cmd), nil)
	return err
}

type timeBody struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

type roundsBody struct {
	Rounds int `json:"rounds"`
}

type betweenRoundsBody struct {
	Enabled bool `json:"enabled"`
	Time    int  `json:"time"`
}

// SetTime sets the round length.
func (c *Client) SetTime(ctx context.Context, minutes, seconds int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	_, err := c.do(ctx, http.MethodPost, "set-time", timeBody{Minutes: minutes, Seconds: seconds})
	return err
}

// SetRounds sets the total number of rounds.
func (c *Client) SetRounds(ctx context.Context, rounds int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	_, err := c.do(ctx, http.MethodPost, "set-rounds", roundsBody{Rounds: rounds})
	return err
}

// SetBetweenRounds configures the rest period; seconds is its length.
func (c *Client) SetBetweenRounds(ctx context.Context, enabled bool, seconds int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	_, err := c.do(ctx, http.MethodPost, "set-between-rounds", betweenRoundsBody{Enabled: enabled, Time: seconds})
	return err
}

func (c *Client) do(ctx context.Context, method, name string, payload any) ([]byte, error) {
	reqURL := c.baseURL.JoinPath(name)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", name), zap.Error(err))
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", name),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api %s returned status %d", name, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", apiBase, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse api base %q: unsupported scheme %q", apiBase, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", apiBase)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
