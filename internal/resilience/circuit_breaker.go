// Package resilience guards calls to flaky external sinks so repeated
// failures stop delaying the caller.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the breaker position
type State int32

const (
	// StateClosed passes calls through
	StateClosed State = iota
	// StateOpen rejects calls until the cooldown has passed
	StateOpen
	// StateHalfOpen lets a probe call through
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned without calling the sink while the breaker is open
var ErrOpen = errors.New("circuit breaker is open")

// Breaker trips after a run of consecutive failures and rejects calls
// until a cooldown passes. The first call after the cooldown probes the
// sink: success closes the breaker, failure opens it for another
// cooldown.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration
	logger    *zap.Logger

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

// NewBreaker creates a breaker named for its sink. threshold is the
// consecutive failure count that trips it.
func NewBreaker(name string, threshold int, cooldown time.Duration, logger *zap.Logger) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	return &Breaker{
		name:      name,
		threshold: threshold,
		cooldown:  cooldown,
		logger:    logger,
	}
}

// State reports the current position, accounting for an elapsed cooldown
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position(time.Now())
}

// Do runs fn unless the breaker is open. fn's error feeds the failure
// count and is returned unchanged. A cancelled context is reported
// without calling fn and does not count as a sink failure.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := fn(ctx)
	b.observe(err)
	return err
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.position(time.Now()) == StateOpen {
		return ErrOpen
	}
	return nil
}

// position moves an expired open state to half-open. Callers hold mu.
func (b *Breaker) position(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.cooldown {
		b.state = StateHalfOpen
	}
	return b.state
}

func (b *Breaker) observe(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if b.state != StateClosed {
			b.logger.Info("sink recovered", zap.String("breaker", b.name))
		}
		b.state = StateClosed
		b.failures = 0
		return
	}

	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.threshold {
		if b.state != StateOpen {
			b.logger.Warn("sink disabled until cooldown passes",
				zap.String("breaker", b.name),
				zap.Int("failures", b.failures),
				zap.Duration("cooldown", b.cooldown))
		}
		b.state = StateOpen
		b.openedAt = time.Now()
	}
}
