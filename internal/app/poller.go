package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/clockctl/internal/clockapi"
	"github.com/five82/clockctl/internal/state"
	"github.com/five82/clockctl/internal/stream"
)

const (
	defaultPollInterval  = 5 * time.Second
	defaultReconnectBase = 2 * time.Second
	maxBackoff           = 30 * time.Second
)

// StreamConn is the part of *stream.Client the supervisor drives.
type StreamConn interface {
	Connect(ctx context.Context, endpoint string) error
	Disconnect()
	Events() <-chan stream.Event
}

var _ StreamConn = (*stream.Client)(nil)

// Supervisor feeds the store from both transports. The stream is primary;
// the HTTP poller only runs while the stream is not open.
type Supervisor struct {
	Stream        StreamConn
	Store         *state.Store
	Fetcher       clockapi.StatusFetcher
	Endpoint      string
	ReconnectBase time.Duration
	PollInterval  time.Duration
	Logger        *zap.Logger
}

func (s *Supervisor) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// RunStream keeps the stream connected, reconnecting with exponential
// backoff, and routes its events into the store. It returns nil when ctx ends.
func (s *Supervisor) RunStream(ctx context.Context) error {
	log := s.logger().Named("supervisor")
	base := s.ReconnectBase
	if base <= 0 {
		base = defaultReconnectBase
	}
	defer s.Stream.Disconnect()

	failures := 0
	for {
		if err := s.Stream.Connect(ctx, s.Endpoint); err != nil {
			return fmt.Errorf("connect stream: %w", err)
		}
		if !s.consume(ctx, &failures) {
			return nil
		}

		wait := calculateBackoff(failures, base)
		failures++
		log.Info("stream reconnect scheduled", zap.Duration("wait", wait), zap.Int("failures", failures))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// consume handles events from the current connection until it drops. It
// reports false when ctx ended instead.
func (s *Supervisor) consume(ctx context.Context, failures *int) bool {
	events := s.Stream.Events()
	for {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			switch ev.Kind {
			case stream.EventPatch:
				s.Store.ApplyPatch(ev.Status)
			case stream.EventState:
				switch ev.State {
				case stream.Open:
					*failures = 0
					s.Store.SetConnection(stream.Open, nil)
				case stream.Disconnected:
					s.Store.MarkDisconnected(ev.Err)
					return true
				default:
					s.Store.SetConnection(ev.State, nil)
				}
			}
		}
	}
}

// RunPoller fetches once immediately, then polls at PollInterval whenever
// the stream is not open. It returns nil when ctx ends.
func (s *Supervisor) RunPoller(ctx context.Context) error {
	interval := s.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	s.refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.Store.Snapshot().Connected() {
				continue
			}
			s.refresh(ctx)
		}
	}
}

func (s *Supervisor) refresh(ctx context.Context) {
	status, err := s.Fetcher.FetchStatus(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		s.logger().Warn("status poll failed", zap.Error(err))
	}
	s.Store.Update(status, err)
}

// calculateBackoff doubles base for every failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
