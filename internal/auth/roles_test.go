package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/helpdesk-api/internal/domain"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

func newRoleTestApp(profile *domain.Profile) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.SendStatus(domainErr.HTTPStatus)
		}
		return nil
	})
	if profile != nil {
		app.Use(func(c *fiber.Ctx) error {
			SetCurrentUser(c, profile)
			return c.Next()
		})
	}
	app.Post("/admin-only", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	app := newRoleTestApp(&domain.Profile{ID: "u-1", UserType: domain.UserTypeAdmin})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/admin-only", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdminRejectsAgent(t *testing.T) {
	app := newRoleTestApp(&domain.Profile{ID: "u-1", UserType: domain.UserTypeAgent})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/admin-only", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminWithoutPrincipal(t *testing.T) {
	app := newRoleTestApp(nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/admin-only", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
