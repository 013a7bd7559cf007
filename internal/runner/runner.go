package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/applyforge/applyforge/internal/config"
	"github.com/applyforge/applyforge/internal/domain"
	"github.com/applyforge/applyforge/internal/profile"
	"github.com/applyforge/applyforge/internal/sites"
	"github.com/applyforge/applyforge/internal/storage"
	"github.com/applyforge/applyforge/internal/tracker"
)

// ScreenshotSource captures the current page for confirmation
// artifacts. *browser.Session satisfies it.
type ScreenshotSource interface {
	Screenshot() ([]byte, error)
}

// Runner drives one application run: log in, search, then walk the
// result list applying until the cap is reached or the list ends.
type Runner struct {
	cfg       config.RunnerConfig
	adapter   sites.Adapter
	tracker   tracker.Tracker
	artifacts storage.ArtifactStore
	screens   ScreenshotSource
	limiter   *rate.Limiter
	logger    *zap.Logger

	onProgress func(done, total int)
	onRecord   func(record domain.ApplicationRecord)
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID    string
	Site     domain.Site
	Applied  int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// New creates a runner. A zero apply interval disables throttling.
func New(cfg config.RunnerConfig, adapter sites.Adapter, tr tracker.Tracker, artifacts storage.ArtifactStore, screens ScreenshotSource, logger *zap.Logger) *Runner {
	var limiter *rate.Limiter
	if cfg.ApplyInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.ApplyInterval), 1)
	}

	return &Runner{
		cfg:       cfg,
		adapter:   adapter,
		tracker:   tr,
		artifacts: artifacts,
		screens:   screens,
		limiter:   limiter,
		logger:    logger,
	}
}

// SetProgressCallback sets a callback invoked after each processed job.
func (r *Runner) SetProgressCallback(fn func(done, total int)) {
	r.onProgress = fn
}

// SetRecordCallback sets a callback invoked for each tracked record.
func (r *Runner) SetRecordCallback(fn func(record domain.ApplicationRecord)) {
	r.onRecord = fn
}

// Run executes the full application loop. Per-job failures are
// recorded and the loop continues; an aborted prompt or an unavailable
// store ends the run early since no further job can resolve answers.
func (r *Runner) Run(ctx context.Context, query config.SearchConfig) (*Summary, error) {
	runID := uuid.New().String()
	start := time.Now()
	logger := r.logger.With(
		zap.String("run_id", runID),
		zap.String("site", string(r.adapter.Site())))

	summary := &Summary{RunID: runID, Site: r.adapter.Site()}

	if err := r.adapter.Login(ctx); err != nil {
		return summary, err
	}
	if err := r.adapter.Search(ctx, query); err != nil {
		return summary, err
	}

	count, err := r.adapter.JobCount()
	if err != nil {
		return summary, err
	}
	logger.Info("search results ready", zap.Int("jobs", count))

	for i := 0; i < count && summary.Applied < r.cfg.MaxApplications; i++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				summary.Duration = time.Since(start)
				return summary, err
			}
		}

		posting, status, err := r.adapter.Apply(ctx, i)
		if err != nil {
			if domain.IsPromptAborted(err) || domain.IsStoreUnavailable(err) {
				summary.Duration = time.Since(start)
				return summary, err
			}
			logger.Warn("application failed",
				zap.String("company", posting.Company),
				zap.String("title", posting.Title),
				zap.Error(err))
			status = domain.StatusFailed
		}

		record := domain.RecordFor(posting, status)
		if err := r.tracker.Track(ctx, record); err != nil {
			logger.Error("tracking application", zap.Error(err))
		}
		if r.onRecord != nil {
			r.onRecord(record)
		}

		switch status {
		case domain.StatusApplied:
			summary.Applied++
			r.saveConfirmation(ctx, runID, i, posting, logger)
		case domain.StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}

		if r.onProgress != nil {
			r.onProgress(i+1, count)
		}
	}

	summary.Duration = time.Since(start)
	logger.Info("run complete",
		zap.Int("applied", summary.Applied),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration))

	return summary, nil
}

// saveConfirmation captures and uploads the post-submit page. Artifact
// problems never fail the run.
func (r *Runner) saveConfirmation(ctx context.Context, runID string, index int, posting domain.JobPosting, logger *zap.Logger) {
	if r.screens == nil {
		return
	}

	data, err := r.screens.Screenshot()
	if err != nil {
		logger.Warn("capturing confirmation screenshot", zap.Error(err))
		return
	}

	name := fmt.Sprintf("%02d_%s.jpg", index, profile.DeriveKey(posting.Company))
	uri, err := r.artifacts.SaveScreenshot(ctx, runID, name, data)
	if err != nil {
		logger.Warn("uploading confirmation screenshot", zap.Error(err))
		return
	}
	if uri != "" {
		logger.Info("confirmation saved", zap.String("uri", uri))
	}
}
