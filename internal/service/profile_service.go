package service

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/threads-gateway/internal/apperr"
	"github.com/maheshrc27/threads-gateway/internal/models"
	"github.com/maheshrc27/threads-gateway/internal/threads"
)

var profileFields = []string{"id", "username", "threads_profile_picture_url", "threads_biography"}

type ProfileService interface {
	GetProfile(ctx context.Context, credential string) (*models.Identity, error)
}

type profileService struct {
	client *threads.Client
}

func NewProfileService(client *threads.Client) ProfileService {
	return &profileService{client: client}
}

func (s *profileService) GetProfile(ctx context.Context, credential string) (*models.Identity, error) {
	info, err := s.client.Me(ctx, credential, profileFields...)
	if err != nil {
		slog.Info("failed to fetch profile", "error", err)
		return nil, apperr.Collapse(apperr.ProfileFetchFailed, err)
	}

	return &models.Identity{
		ID:                info.ID,
		Username:          info.Username,
		Biography:         info.Biography,
		ProfilePictureURL: info.ProfilePictureURL,
	}, nil
}
