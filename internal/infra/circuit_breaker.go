package infra

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the current state of a HistoryBreaker.
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // writes flow normally
	BreakerOpen                         // fast-fail, store presumed down
	BreakerHalfOpen                     // cooldown elapsed, next write is a probe
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned by Do while the breaker is fast-failing.
var ErrBreakerOpen = errors.New("history breaker open")

// BreakerConfig tunes the history-store breaker. The defaults assume the
// store is the service's own local Postgres: trip after a few failures and
// probe again quickly. A remote store would warrant a longer cooldown.
type BreakerConfig struct {
	TripAfter int           // consecutive failed writes before fast-failing
	Cooldown  time.Duration // how long to fast-fail before probing again
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.TripAfter <= 0 {
		c.TripAfter = 3
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 15 * time.Second
	}
	return c
}

// HistoryBreaker guards the transfer-history retry cron against hammering a
// database that is refusing writes (Closed → Open → Half-Open). A single
// successful probe closes it again: snapshot inserts are cheap and uniform,
// so one good write is proof enough the store is back.
type HistoryBreaker struct {
	mu       sync.Mutex
	cfg      BreakerConfig
	state    BreakerState
	failures int
	openedAt time.Time
	now      func() time.Time // stubbed in tests
}

// NewHistoryBreaker creates a closed breaker.
func NewHistoryBreaker(cfg BreakerConfig) *HistoryBreaker {
	return &HistoryBreaker{cfg: cfg.withDefaults(), now: time.Now}
}

// State reports the effective state, moving open → half-open once the
// cooldown has elapsed. Safe for concurrent use.
func (b *HistoryBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *HistoryBreaker) stateLocked() BreakerState {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		b.state = BreakerHalfOpen
	}
	return b.state
}

// Do runs one history write through the breaker. While open it returns
// ErrBreakerOpen without calling fn.
func (b *HistoryBreaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.stateLocked() == BreakerOpen {
		b.mu.Unlock()
		return ErrBreakerOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		// A failed probe reopens immediately, a closed breaker waits for
		// TripAfter consecutive failures.
		if b.state == BreakerHalfOpen || b.failures >= b.cfg.TripAfter {
			b.state = BreakerOpen
			b.openedAt = b.now()
			b.failures = 0
		}
		return err
	}
	b.state = BreakerClosed
	b.failures = 0
	return nil
}
