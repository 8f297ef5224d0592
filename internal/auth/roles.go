package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffdesk/helpdesk-api/internal/domain"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

// RequireAdmin gates admin-only routes. It runs after Handle, so a
// missing principal means the route was wired without authentication.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if user.UserType != domain.UserTypeAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
