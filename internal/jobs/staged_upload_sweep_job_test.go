package job

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

type memoryStagedStore struct {
	mu       sync.Mutex
	stale    []string
	listErr  error
	failKey  string
	released []string
	maxAge   time.Duration
}

func (s *memoryStagedStore) ListStale(ctx context.Context, maxAge time.Duration) ([]string, error) {
	s.maxAge = maxAge
	return s.stale, s.listErr
}

func (s *memoryStagedStore) Release(ctx context.Context, key string) error {
	if key == s.failKey {
		return errors.New("delete failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, key)
	return nil
}

func TestSweepDeletesStaleUploads(t *testing.T) {
	store := &memoryStagedStore{stale: []string{"a", "b", "c"}, failKey: "b"}
	job := NewStagedUploadSweepJob(store, 30*time.Minute)

	if got := job.Run(context.Background()); got != 2 {
		t.Fatalf("expected 2 deletions, got %d", got)
	}
	sort.Strings(store.released)
	if len(store.released) != 2 || store.released[0] != "a" || store.released[1] != "c" {
		t.Fatalf("unexpected released keys %v", store.released)
	}
	if store.maxAge != 30*time.Minute {
		t.Fatalf("expected max age to be passed through, got %s", store.maxAge)
	}
}

func TestSweepListFailure(t *testing.T) {
	store := &memoryStagedStore{listErr: errors.New("bucket unavailable")}
	job := NewStagedUploadSweepJob(store, time.Minute)

	if got := job.Run(context.Background()); got != 0 {
		t.Fatalf("expected no deletions, got %d", got)
	}
}
