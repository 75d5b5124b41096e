package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/threads-gateway/internal/service"
)

type AuthMiddleware struct {
	s service.CredentialService
}

func NewAuthMiddleware(service service.CredentialService) *AuthMiddleware {
	return &AuthMiddleware{s: service}
}

// AuthMiddleware resolves the request credential against the platform and binds the
// resulting session to the request. Missing credentials never reach the platform.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := m.s.Validate(c.UserContext(), Credential(c))
		if err != nil {
			return err
		}

		c.Locals(LocalsSession, session)
		c.SetUserContext(ContextWithSession(c.UserContext(), session))
		return c.Next()
	}
}
