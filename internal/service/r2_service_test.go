package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	config "github.com/maheshrc27/threads-gateway/configs"
)

func TestR2StageAndRelease(t *testing.T) {
	store := newFakeObjectStore()
	r2 := NewR2Service(store, config.R2{BucketName: "media", PublicURL: "https://cdn.example.com/"})

	img := pngImage()
	img.ContentType = "image/png"
	staged, err := r2.Stage(context.Background(), img)
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if !strings.HasPrefix(staged.Key, StagedKeyPrefix) || !strings.HasSuffix(staged.Key, ".png") {
		t.Fatalf("unexpected key %q", staged.Key)
	}
	if staged.URL != "https://cdn.example.com/"+staged.Key {
		t.Fatalf("unexpected url %q", staged.URL)
	}
	if string(store.bodies[staged.Key]) != string(img.Data) {
		t.Fatalf("uploaded bytes do not match")
	}

	if err := r2.Release(context.Background(), staged.Key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, ok := store.objects[staged.Key]; ok {
		t.Fatalf("expected object to be deleted")
	}
}

func TestR2StageError(t *testing.T) {
	store := newFakeObjectStore()
	store.putErr = errors.New("access denied")
	r2 := NewR2Service(store, config.R2{BucketName: "media"})

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, err := r2.Stage(context.Background(), pngImage())
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("expected wrapped upload error, got %v", err)
	}
	if logs.Len() != 0 {
		t.Fatalf("stage should leave logging to its caller, got %q", logs.String())
	}
}

func TestR2ListStale(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeObjectStore()
	store.add(StagedKeyPrefix+"old.png", now.Add(-2*time.Hour))
	store.add(StagedKeyPrefix+"fresh.png", now.Add(-time.Minute))

	r2 := NewR2Service(store, config.R2{BucketName: "media"})
	r2.now = func() time.Time { return now }

	stale, err := r2.ListStale(context.Background(), 30*time.Minute)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stale) != 1 || stale[0] != StagedKeyPrefix+"old.png" {
		t.Fatalf("unexpected stale keys %v", stale)
	}
}
