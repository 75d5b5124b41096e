package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/threads-gateway/internal/models"
)

const (
	HeaderAccessToken = "X-Access-Token"
	LocalsSession     = "session"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const ContextKeySession ContextKey = "session"

func ContextWithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, ContextKeySession, session)
}

func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(ContextKeySession).(*models.Session)
	return session, ok && session != nil
}

// Credential reads the opaque access token from X-Access-Token, falling back to a
// bearer Authorization header.
func Credential(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get(HeaderAccessToken)); token != "" {
		return token
	}
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > len("Bearer ") && strings.EqualFold(auth[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(auth[len("Bearer "):])
	}
	return ""
}
