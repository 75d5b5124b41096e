package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"github.com/maheshrc27/threads-gateway/internal/apperr"
	"github.com/maheshrc27/threads-gateway/internal/models"
)

var allowedImageTypes = map[string]struct{}{
	matchers.TypeJpeg.MIME.Value: {},
	matchers.TypePng.MIME.Value:  {},
	matchers.TypeGif.MIME.Value:  {},
}

type MediaService interface {
	ValidateDraft(draft *models.Draft) error
}

type mediaService struct{}

func NewMediaService() MediaService {
	return &mediaService{}
}

// ValidateDraft checks a draft locally. On success an attached image has its ContentType
// replaced by the sniffed type; the client-declared type is never trusted.
func (s *mediaService) ValidateDraft(draft *models.Draft) error {
	if draft == nil {
		return apperr.Validation("caption", "Post content is missing")
	}

	if utf8.RuneCountInString(draft.Caption) > models.MaxCaptionLength {
		return apperr.Validation("caption",
			fmt.Sprintf("Caption exceeds maximum length of %d characters", models.MaxCaptionLength))
	}

	if !draft.HasImage() {
		if strings.TrimSpace(draft.Caption) == "" {
			return apperr.Validation("caption", "Caption or image is required")
		}
		return nil
	}

	img := draft.Image
	if len(img.Data) == 0 {
		return apperr.Validation("image", "Image is empty")
	}
	if len(img.Data) > models.MaxImageSize {
		return apperr.Validation("image", "Image exceeds maximum size of 5MB")
	}

	kind, err := filetype.Image(img.Data)
	if err != nil || kind == filetype.Unknown {
		return apperr.Validation("image", "Invalid file type. Only JPEG, PNG, and GIF are allowed.")
	}
	if _, ok := allowedImageTypes[kind.MIME.Value]; !ok {
		return apperr.Validation("image", "Invalid file type. Only JPEG, PNG, and GIF are allowed.")
	}

	img.ContentType = kind.MIME.Value
	if img.Filename == "" {
		img.Filename = "image." + kind.Extension
	}
	return nil
}
