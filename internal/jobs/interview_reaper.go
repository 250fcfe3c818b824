// Package jobs holds the scheduled maintenance tasks.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/repositories"
)

// ReaperConfig configures the stale-interview reaper.
type ReaperConfig struct {
	Schedule string        // cron schedule (e.g., "0 3 * * *" for 3 AM daily)
	Enabled  bool          // whether to run at all
	MaxAge   time.Duration // how long an unfinalized interview may linger
}

// InterviewReaper periodically removes unfinalized interviews that never got
// their questions generated, so abandoned generation calls do not accumulate.
type InterviewReaper struct {
	store  repositories.InterviewStore
	config *ReaperConfig
	cron   *cron.Cron
	logger *zap.Logger
}

func NewInterviewReaper(store repositories.InterviewStore, config *ReaperConfig, logger *zap.Logger) *InterviewReaper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxAge <= 0 {
		config.MaxAge = 7 * 24 * time.Hour
	}
	return &InterviewReaper{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the scheduled reaper.
func (ir *InterviewReaper) Start() error {
	if !ir.config.Enabled {
		ir.logger.Info("interview reaper is disabled, skipping scheduler")
		return nil
	}

	ir.logger.Info("starting interview reaper", zap.String("schedule", ir.config.Schedule))

	_, err := ir.cron.AddFunc(ir.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		ir.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	ir.cron.Start()
	return nil
}

// Stop halts the scheduler.
func (ir *InterviewReaper) Stop() {
	ir.cron.Stop()
}

// RunOnce performs a single reap pass.
func (ir *InterviewReaper) RunOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-ir.config.MaxAge)
	deleted, err := ir.store.DeleteUnfinalizedBefore(ctx, cutoff)
	if err != nil {
		ir.logger.Error("interview reap failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		ir.logger.Info("reaped stale interviews", zap.Int64("count", deleted))
	}
}
