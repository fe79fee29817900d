package middleware

import (
	"portal/backend/session"
	"portal/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth rejects requests while the portal has no authenticated session.
func RequireAuth(m *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.State() != session.StateAuthenticated {
			return utils.Unauthorized(c, "Not signed in")
		}
		return c.Next()
	}
}

// RequireAdmin rejects requests unless the resolved role is admin. A pending
// role is not admin; the caller retries once resolution settles.
func RequireAdmin(m *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.State() != session.StateAuthenticated {
			return utils.Unauthorized(c, "Not signed in")
		}
		if !m.IsAdmin() {
			return utils.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}
