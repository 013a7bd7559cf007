package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/config"
	"github.com/applyforge/applyforge/internal/domain"
	"github.com/applyforge/applyforge/internal/resilience"
)

// A webhook that fails this many times in a row sits out a cooldown so
// the apply loop stops waiting on a dead endpoint.
const (
	webhookFailureLimit = 3
	webhookCooldown     = 5 * time.Minute
)

// Tracker records the outcome of one job application.
type Tracker interface {
	Track(ctx context.Context, record domain.ApplicationRecord) error
}

// New builds the configured tracker chain: webhook first when a URL is
// set, with the CSV file catching records the webhook could not take.
func New(cfg config.TrackerConfig, logger *zap.Logger) Tracker {
	csv := NewCSV(cfg.CSVPath, logger)
	if cfg.WebhookURL == "" {
		return csv
	}

	breaker := resilience.NewBreaker("tracker-webhook", webhookFailureLimit, webhookCooldown, logger)
	return NewFallback(NewGuarded(NewWebhook(cfg, logger), breaker), csv, logger)
}

// Guarded runs a tracker behind a circuit breaker. While the breaker is
// open Track fails immediately, which sends the record straight to the
// fallback.
type Guarded struct {
	inner   Tracker
	breaker *resilience.Breaker
}

// NewGuarded wraps a tracker with a breaker.
func NewGuarded(inner Tracker, breaker *resilience.Breaker) *Guarded {
	return &Guarded{inner: inner, breaker: breaker}
}

// Track records through the wrapped tracker when the breaker allows it.
func (g *Guarded) Track(ctx context.Context, record domain.ApplicationRecord) error {
	return g.breaker.Do(ctx, func(ctx context.Context) error {
		return g.inner.Track(ctx, record)
	})
}

// Fallback tries the primary tracker and hands the record to the
// secondary when the primary fails, so an unreachable webhook never
// loses an application record.
type Fallback struct {
	primary   Tracker
	secondary Tracker
	logger    *zap.Logger
}

// NewFallback creates a fallback tracker pair.
func NewFallback(primary, secondary Tracker, logger *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Track records through the primary tracker, falling back on error.
func (f *Fallback) Track(ctx context.Context, record domain.ApplicationRecord) error {
	err := f.primary.Track(ctx, record)
	if err == nil {
		return nil
	}
	f.logger.Warn("primary tracker failed, using fallback",
		zap.String("company", record.Company),
		zap.Error(err))
	return f.secondary.Track(ctx, record)
}
