package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/maheshrc27/threads-gateway/internal/apperr"
)

func TestValidateCredential(t *testing.T) {
	fake := newFakeThreads(t)
	fake.handle("/me", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fields") != "id" {
			t.Errorf("validator should only ask for id, got %q", r.URL.Query().Get("fields"))
		}
		w.Write([]byte(`{"id":"42"}`))
	})

	svc := NewCredentialService(fake.client(time.Second))
	sess, err := svc.Validate(context.Background(), "tok_1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sess.RemoteID != "42" || sess.Credential != "tok_1" {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestValidateCredentialFailures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"rejected":    {http.StatusBadRequest, `{"error":{"message":"Invalid OAuth access token","code":190}}`},
		"throttled":   {http.StatusTooManyRequests, `{}`},
		"missing id":  {http.StatusOK, `{}`},
		"bad payload": {http.StatusOK, `<html>`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			fake := newFakeThreads(t)
			fake.json("/me", tc.status, tc.body)
			svc := NewCredentialService(fake.client(time.Second))
			_, err := svc.Validate(context.Background(), "tok_1")
			assertKind(t, err, apperr.Unauthenticated)
		})
	}
}

func TestValidateMissingCredentialMakesNoCalls(t *testing.T) {
	fake := newFakeThreads(t)
	svc := NewCredentialService(fake.client(time.Second))
	_, err := svc.Validate(context.Background(), "")
	assertKind(t, err, apperr.Unauthenticated)
	if fake.total() != 0 {
		t.Fatalf("expected no remote calls, got %d", fake.total())
	}
}
