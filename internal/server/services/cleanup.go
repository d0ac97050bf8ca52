package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/logging"
)

// Purger deletes item reports created before a cutoff.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupWorker periodically purges item reports older than the retention.
type CleanupWorker struct {
	purger    Purger
	retention time.Duration
	interval  time.Duration
	logger    logging.Logger
	now       func() time.Time
}

func NewCleanupWorker(p Purger, retention, interval time.Duration, logger logging.Logger) *CleanupWorker {
	return &CleanupWorker{
		purger:    p,
		retention: retention,
		interval:  interval,
		logger:    logger.With("module", "cleanup"),
		now:       time.Now,
	}
}

// RunOnce performs a single purge pass.
func (w *CleanupWorker) RunOnce(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.retention)
	n, err := w.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		w.logger.Error(ctx, "cleanup failed", "error", err)
		return 0, err
	}
	w.logger.Info(ctx, "cleanup finished", "deleted", n, "cutoff", cutoff)
	return n, nil
}

// Run purges once immediately and then every interval until ctx is done.
func (w *CleanupWorker) Run(ctx context.Context) {
	_, _ = w.RunOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = w.RunOnce(ctx)
		}
	}
}
