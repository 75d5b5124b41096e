package service

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/threads-gateway/internal/apperr"
	"github.com/maheshrc27/threads-gateway/internal/models"
	"github.com/maheshrc27/threads-gateway/internal/threads"
)

type CredentialService interface {
	Validate(ctx context.Context, credential string) (*models.Session, error)
}

type credentialService struct {
	client *threads.Client
}

func NewCredentialService(client *threads.Client) CredentialService {
	return &credentialService{client: client}
}

// Validate asks the platform who owns credential. Every failure is Unauthenticated.
func (s *credentialService) Validate(ctx context.Context, credential string) (*models.Session, error) {
	if credential == "" {
		return nil, apperr.New(apperr.Unauthenticated, "No token provided")
	}

	info, err := s.client.Me(ctx, credential, "id")
	if err != nil {
		slog.Info("token validation failed", "error", err)
		return nil, apperr.Collapse(apperr.Unauthenticated, err)
	}
	if info.ID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "")
	}

	return &models.Session{
		Credential: credential,
		RemoteID:   info.ID,
	}, nil
}
