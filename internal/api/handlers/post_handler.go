package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/threads-gateway/internal/apperr"
	"github.com/maheshrc27/threads-gateway/internal/models"
	"github.com/maheshrc27/threads-gateway/internal/service"
	"github.com/maheshrc27/threads-gateway/internal/transfer"
)

type PostHandler struct {
	s service.PublishService
}

func NewPostHandler(service service.PublishService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	session, err := GetSession(c)
	if err != nil {
		return err
	}

	draft := &models.Draft{Caption: c.FormValue("caption")}

	// Requests without a multipart body are text posts.
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return apperr.Validation("image", "Malformed multipart body")
		}
		if files := form.File["image"]; len(files) > 0 {
			image, err := readImage(files[0])
			if err != nil {
				return err
			}
			draft.Image = image
		}
	}

	post, err := h.s.Publish(c.UserContext(), session, draft)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(transfer.PublishResponse{
		Message:  "Thread posted successfully!",
		ThreadID: post.ThreadID,
	})
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

func readImage(fh *multipart.FileHeader) (*models.Image, error) {
	if fh.Size > models.MaxImageSize {
		return nil, apperr.Validation("image", "Image exceeds maximum size of 5MB")
	}

	file, err := fh.Open()
	if err != nil {
		return nil, apperr.Wrap(apperr.ValidationFailed, err, "Unable to read image")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, models.MaxImageSize+1))
	if err != nil {
		return nil, apperr.Wrap(apperr.ValidationFailed, fmt.Errorf("read image: %w", err), "Unable to read image")
	}

	return &models.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
