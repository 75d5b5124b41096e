package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("THREADS_CLIENT_ID", "id")
	t.Setenv("THREADS_CLIENT_SECRET", "secret")
	t.Setenv("REDIRECT_URI", "https://gw.example.com/api/auth/callback")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("IMAGE_TRANSPORT", "")

	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.ImageTransport != ImageTransportMultipart {
		t.Fatalf("expected multipart transport, got %q", cfg.ImageTransport)
	}
	if cfg.Port != "5000" || cfg.StagedUploadMaxAge != 30*time.Minute || cfg.RequireState {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestValidateListsMissingVariables(t *testing.T) {
	cfg := &Config{ImageTransport: ImageTransportURL}
	err := cfg.Validate()

	var missing MissingEnvError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingEnvError, got %v", err)
	}
	want := []string{
		"THREADS_CLIENT_ID", "THREADS_CLIENT_SECRET", "REDIRECT_URI",
		"R2_ACCOUNT_ID", "R2_ACCESS_KEY", "R2_SECRET_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_URL",
	}
	if len(missing.Variables) != len(want) {
		t.Fatalf("expected %v, got %v", want, missing.Variables)
	}
	for i := range want {
		if missing.Variables[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, missing.Variables)
		}
	}
}

func TestValidateRejectsUnknownTransport(t *testing.T) {
	cfg := &Config{
		Threads:        Threads{ClientID: "id", ClientSecret: "s", RedirectURI: "r"},
		ImageTransport: "ftp",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown transport")
	}
}

func TestValidateRequiredStateNeedsSecret(t *testing.T) {
	t.Setenv("OAUTH_STATE_REQUIRED", "true")
	cfg := &Config{
		Threads:        Threads{ClientID: "id", ClientSecret: "s", RedirectURI: "r"},
		ImageTransport: ImageTransportMultipart,
		RequireState:   getBool("OAUTH_STATE_REQUIRED", false),
	}

	var missing MissingEnvError
	if !errors.As(cfg.Validate(), &missing) || len(missing.Variables) != 1 || missing.Variables[0] != "SECRET_KEY" {
		t.Fatalf("expected missing SECRET_KEY, got %v", cfg.Validate())
	}

	cfg.SecretKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
