package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/maheshrc27/threads-gateway/internal/apperr"
)

func TestGetProfile(t *testing.T) {
	fake := newFakeThreads(t)
	fake.handle("/me", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("fields"); got != "id,username,threads_profile_picture_url,threads_biography" {
			t.Errorf("unexpected fields %q", got)
		}
		w.Write([]byte(`{"id":"42","username":"alice","threads_profile_picture_url":"https://cdn/p.jpg","threads_biography":"hi"}`))
	})

	svc := NewProfileService(fake.client(time.Second))
	identity, err := svc.GetProfile(context.Background(), "tok_1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if identity.ID != "42" || identity.Username != "alice" || identity.Biography != "hi" || identity.ProfilePictureURL != "https://cdn/p.jpg" {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestGetProfileFailure(t *testing.T) {
	fake := newFakeThreads(t)
	fake.json("/me", http.StatusInternalServerError, `{"error":{"message":"boom"}}`)

	svc := NewProfileService(fake.client(time.Second))
	_, err := svc.GetProfile(context.Background(), "tok_1")
	assertKind(t, err, apperr.ProfileFetchFailed)
}
