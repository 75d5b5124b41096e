package job

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const sweepConcurrency = 10

// StagedStore lists and deletes images staged for the image_url transport.
type StagedStore interface {
	ListStale(ctx context.Context, maxAge time.Duration) ([]string, error)
	Release(ctx context.Context, key string) error
}

// StagedUploadSweepJob deletes staged images whose request never released them, for
// example after a crash between upload and publish.
type StagedUploadSweepJob struct {
	store  StagedStore
	maxAge time.Duration
}

func NewStagedUploadSweepJob(store StagedStore, maxAge time.Duration) *StagedUploadSweepJob {
	return &StagedUploadSweepJob{
		store:  store,
		maxAge: maxAge,
	}
}

// Sweep is the cron entry point.
func (j *StagedUploadSweepJob) Sweep() {
	j.Run(context.Background())
}

// Run deletes every stale staged image and returns how many were removed.
func (j *StagedUploadSweepJob) Run(ctx context.Context) int {
	keys, err := j.store.ListStale(ctx, j.maxAge)
	if err != nil {
		slog.Warn("failed to list staged uploads", "error", err)
		return 0
	}
	if len(keys) == 0 {
		return 0
	}

	var (
		wg      sync.WaitGroup
		deleted atomic.Int64
	)
	semaphore := make(chan struct{}, sweepConcurrency)

	for _, key := range keys {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(key string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := j.store.Release(ctx, key); err != nil {
				slog.Warn("failed to delete staged upload", "key", key, "error", err)
				return
			}
			deleted.Add(1)
		}(key)
	}
	wg.Wait()

	slog.Info("swept staged uploads", "deleted", deleted.Load(), "stale", len(keys))
	return int(deleted.Load())
}
