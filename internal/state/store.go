package state

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/clockctl/internal/clock"
	"github.com/five82/clockctl/internal/stream"
)

const defaultTickInterval = time.Second

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Status              clock.Status
	HasStatus           bool
	Connection          stream.State
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int  // failed polls or stream attempts since the last success
	Ticking             bool // the local countdown ticker is running
}

// IsOffline returns true when neither transport has worked for a while.
func (s Snapshot) IsOffline() bool {
	return s.Connection != stream.Open && s.ConsecutiveFailures >= 2
}

// Connected reports whether the status stream is open.
func (s Snapshot) Connected() bool {
	return s.Connection == stream.Open
}

// Options configures a Store. The zero value is usable.
type Options struct {
	Now          func() time.Time
	TickInterval time.Duration
	Logger       *zap.Logger
}

// Store owns the last known snapshot. Every mutation, whether a stream
// patch, an HTTP fetch or a countdown tick, goes through its mutex.
type Store struct {
	mu       sync.Mutex
	snapshot Snapshot
	ticker   *countdown
	closed   bool

	now      func() time.Time
	interval time.Duration
	changed  chan struct{}
	log      *zap.Logger
}

type countdown struct {
	stop chan struct{}
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		now:      now,
		interval: interval,
		changed:  make(chan struct{}, 1),
		log:      logger.Named("state"),
	}
}

// Changed signals, coalesced, that the snapshot may have changed.
func (s *Store) Changed() <-chan struct{} {
	return s.changed
}

// ApplyPatch merges a decoded record into the snapshot and re-derives the
// countdown. A patch without content leaves the status untouched.
func (s *Store) ApplyPatch(patch clock.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	now := s.now()
	if patch.HasMeaningfulContent() || s.snapshot.HasStatus {
		var base *clock.Status
		if s.snapshot.HasStatus {
			current := s.snapshot.Status
			base = &current
		}
		merged := clock.Merge(base, patch)
		s.snapshot.Status = clock.Normalize(merged, now)
		s.snapshot.HasStatus = true
	}
	s.snapshot.LastUpdated = now
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0

	s.reconcileLocked()
	s.notify()
}

// Update records the outcome of an HTTP status fetch. When err is non-nil
// the previous data is kept but the error is recorded for visibility.
func (s *Store) Update(status clock.Status, err error) {
	if err != nil {
		s.RecordError(err)
		return
	}
	s.ApplyPatch(status)
}

// RecordError notes a failed fetch or command without touching the status.
func (s *Store) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = s.now()
	s.snapshot.ConsecutiveFailures++
	s.notify()
}

// SetConnection records the stream state. Losing the stream stops the local
// countdown; err, if any, counts as a failure.
func (s *Store) SetConnection(state stream.State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.snapshot.Connection = state
	switch {
	case state == stream.Open:
		s.snapshot.ConsecutiveFailures = 0
		s.snapshot.LastError = nil
	case err != nil:
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
	}
	s.reconcileLocked()
	s.notify()
}

// MarkDisconnected is SetConnection(stream.Disconnected, err).
func (s *Store) MarkDisconnected(err error) {
	s.SetConnection(stream.Disconnected, err)
}

// Tick re-derives the countdown from the snapshot's deadline.
func (s *Store) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Close stops the countdown ticker. Later mutations are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTickerLocked()
}

func (s *Store) tickLocked() {
	if s.closed || !s.snapshot.HasStatus {
		return
	}
	next := clock.Normalize(s.snapshot.Status, s.now())
	changed := !next.Equal(s.snapshot.Status)
	wasTicking := s.snapshot.Ticking
	s.snapshot.Status = next
	s.reconcileLocked()
	if changed || wasTicking != s.snapshot.Ticking {
		s.notify()
	}
}

// tick runs on the ticker goroutine; ticks from a replaced ticker are dropped.
func (s *Store) tick(t *countdown) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != t {
		return
	}
	s.tickLocked()
}

// reconcileLocked starts or stops the ticker to match the snapshot.
func (s *Store) reconcileLocked() {
	if s.shouldTickLocked() {
		if s.ticker == nil {
			s.startTickerLocked()
		}
		return
	}
	s.stopTickerLocked()
}

func (s *Store) shouldTickLocked() bool {
	if s.closed || !s.snapshot.HasStatus || s.snapshot.Connection == stream.Disconnected {
		return false
	}
	remaining, ok := clock.Remaining(s.snapshot.Status, s.now())
	return ok && remaining > 0
}

func (s *Store) startTickerLocked() {
	t := &countdown{stop: make(chan struct{})}
	s.ticker = t
	s.snapshot.Ticking = true
	s.log.Debug("countdown ticker started")
	go s.runTicker(t)
}

func (s *Store) stopTickerLocked() {
	if s.ticker == nil {
		return
	}
	close(s.ticker.stop)
	s.ticker = nil
	s.snapshot.Ticking = false
	s.log.Debug("countdown ticker stopped")
}

func (s *Store) runTicker(t *countdown) {
	tk := time.NewTicker(s.interval)
	defer tk.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-tk.C:
			s.tick(t)
		}
	}
}

func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}
