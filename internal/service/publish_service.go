package service

import (
	"context"
	"errors"
	"log/slog"

	config "github.com/maheshrc27/threads-gateway/configs"
	"github.com/maheshrc27/threads-gateway/internal/apperr"
	"github.com/maheshrc27/threads-gateway/internal/models"
	"github.com/maheshrc27/threads-gateway/internal/threads"
)

type PublishService interface {
	Publish(ctx context.Context, session *models.Session, draft *models.Draft) (*models.PublishedPost, error)
}

type publishService struct {
	client    *threads.Client
	media     MediaService
	stager    Stager
	transport string
}

// NewPublishService wires the orchestrator. stager is only used by the image_url transport
// and may be nil otherwise.
func NewPublishService(client *threads.Client, media MediaService, stager Stager, transport string) PublishService {
	if transport == "" {
		transport = config.ImageTransportMultipart
	}
	return &publishService{
		client:    client,
		media:     media,
		stager:    stager,
		transport: transport,
	}
}

// Publish runs Draft -> ContainerCreated -> Published. Any failure ends in Failed with no
// retry and no rollback; a container created before a failed commit is left behind.
// The draft image is released on every exit.
func (s *publishService) Publish(ctx context.Context, session *models.Session, draft *models.Draft) (post *models.PublishedPost, err error) {
	post = &models.PublishedPost{
		MediaType:   models.MediaTypeText,
		Transitions: []models.PublishState{models.PublishStateDraft},
	}

	var staged *StagedImage
	defer func() {
		s.release(ctx, draft, staged)
		if err != nil {
			post.Transitions = append(post.Transitions, models.PublishStateFailed)
		}
	}()

	if session == nil || session.Credential == "" || session.RemoteID == "" {
		return post, apperr.New(apperr.Unauthenticated, "")
	}
	if err := s.media.ValidateDraft(draft); err != nil {
		return post, err
	}

	log := slog.With("user_id", session.RemoteID)

	var creationID string
	switch {
	case !draft.HasImage():
		creationID, err = s.client.CreateTextContainer(ctx, session.RemoteID, session.Credential, draft.Caption)
	case s.transport == config.ImageTransportURL:
		post.MediaType = models.MediaTypeImage
		if s.stager == nil {
			return post, apperr.Wrap(apperr.PublishFailed, errors.New("no image stager configured"), "")
		}
		staged, err = s.stager.Stage(ctx, draft.Image)
		if err != nil {
			log.Warn("failed to stage image", "error", err)
			staged = nil
			return post, apperr.Wrap(apperr.PublishFailed, err, "")
		}
		creationID, err = s.client.CreateImageURLContainer(ctx, session.RemoteID, session.Credential, draft.Caption, staged.URL)
	default:
		post.MediaType = models.MediaTypeImage
		creationID, err = s.client.CreateImageContainer(ctx, session.RemoteID, session.Credential, draft.Caption, threads.ImageUpload{
			Filename:    draft.Image.Filename,
			ContentType: draft.Image.ContentType,
			Data:        draft.Image.Data,
		})
	}
	if err != nil {
		log.Info("container creation failed", "media_type", post.MediaType, "error", err)
		return post, apperr.Classify(err, apperr.PublishFailed)
	}
	if creationID == "" {
		return post, apperr.New(apperr.PublishFailed, "Failed to post to Threads: empty container id")
	}
	post.CreationID = creationID
	post.Transitions = append(post.Transitions, models.PublishStateContainerCreated)

	threadID, err := s.client.Publish(ctx, session.RemoteID, session.Credential, creationID)
	if err != nil {
		log.Info("container publish failed", "creation_id", creationID, "error", err)
		return post, apperr.Classify(err, apperr.PublishFailed)
	}
	if threadID == "" {
		return post, apperr.New(apperr.PublishFailed, "Failed to post to Threads: empty thread id")
	}
	post.ThreadID = threadID
	post.Transitions = append(post.Transitions, models.PublishStatePublished)

	log.Info("thread published", "creation_id", creationID, "thread_id", threadID, "media_type", post.MediaType)
	return post, nil
}

// release uses a context detached from the request. Failures are logged only.
func (s *publishService) release(ctx context.Context, draft *models.Draft, staged *StagedImage) {
	if staged != nil && s.stager != nil {
		if err := s.stager.Release(context.WithoutCancel(ctx), staged.Key); err != nil {
			slog.Warn("failed to release staged image", "key", staged.Key, "error", err)
		}
	}
	if draft.HasImage() {
		draft.Image.Release()
	}
}
