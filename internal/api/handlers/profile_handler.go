package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/threads-gateway/internal/service"
)

type ProfileHandler struct {
	s service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{s: service}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	session, err := GetSession(c)
	if err != nil {
		return err
	}

	identity, err := h.s.GetProfile(c.UserContext(), session.Credential)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(identity)
}
