package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/threads-gateway/internal/api/middleware"
	"github.com/maheshrc27/threads-gateway/internal/apperr"
	"github.com/maheshrc27/threads-gateway/internal/models"
)

// GetSession returns the session bound by the auth middleware.
func GetSession(c *fiber.Ctx) (*models.Session, error) {
	if session, ok := middleware.SessionFromContext(c.UserContext()); ok {
		return session, nil
	}
	if session, ok := c.Locals(middleware.LocalsSession).(*models.Session); ok && session != nil {
		return session, nil
	}
	return nil, apperr.New(apperr.Unauthenticated, "No token provided")
}
