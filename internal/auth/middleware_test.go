package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/helpdesk-api/internal/domain"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		auth   string
		cookie string
		want   string
	}{
		{name: "header token", auth: "Bearer abc123", want: "abc123"},
		{name: "header with padding", auth: "Bearer   abc123", want: "abc123"},
		{name: "empty bearer falls through to cookie", auth: "Bearer ", cookie: "sb-access-token=from-cookie", want: "from-cookie"},
		{name: "no prefix", auth: "abc123", want: ""},
		{name: "cookie fallback", cookie: "sb-access-token=cookie-token", want: "cookie-token"},
		{name: "cookie among others", cookie: "theme=dark; sb-access-token=tok; lang=en", want: "tok"},
		{name: "url encoded cookie", cookie: "sb-access-token=a%2Bb%3Dc", want: "a+b=c"},
		{name: "cookie value containing equals", cookie: "sb-access-token=header.pay=load", want: "header.pay=load"},
		{name: "header wins over cookie", auth: "Bearer from-header", cookie: "sb-access-token=from-cookie", want: "from-header"},
		{name: "wrong cookie name", cookie: "sb-refresh-token=tok", want: ""},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBearerToken(tt.auth, tt.cookie))
		})
	}
}

type stubVerifier struct {
	subject string
	err     error
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (string, error) {
	return s.subject, s.err
}

type stubProfileRepo struct {
	profiles map[string]*domain.Profile
}

func (s *stubProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return profile, nil
}

func (s *stubProfileRepo) ListActive(_ context.Context) ([]domain.Profile, error) {
	return nil, nil
}

func (s *stubProfileRepo) UpdatePreferredCategories(_ context.Context, _ string, _ []string) (*domain.Profile, error) {
	return nil, pgx.ErrNoRows
}

func newTestApp(m *Middleware) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		}
		return nil
	})
	app.Use(m.Handle)
	app.Get("/protected", func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.NewInternalError(errors.New("no principal attached"))
		}
		return c.JSON(fiber.Map{"id": user.ID})
	})
	return app
}

func TestMiddlewareAttachesActiveProfile(t *testing.T) {
	repo := &stubProfileRepo{profiles: map[string]*domain.Profile{
		"user-1": {ID: "user-1", Email: "a@example.com", UserType: domain.UserTypeAgent, IsActive: true},
	}}
	app := newTestApp(NewMiddleware(&stubVerifier{subject: "user-1"}, repo))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddlewareMissingToken(t *testing.T) {
	app := newTestApp(NewMiddleware(&stubVerifier{subject: "user-1"}, &stubProfileRepo{}))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareInvalidToken(t *testing.T) {
	app := newTestApp(NewMiddleware(&stubVerifier{err: ErrInvalidToken}, &stubProfileRepo{}))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareUnknownSubject(t *testing.T) {
	app := newTestApp(NewMiddleware(&stubVerifier{subject: "ghost"}, &stubProfileRepo{}))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareInactiveProfile(t *testing.T) {
	repo := &stubProfileRepo{profiles: map[string]*domain.Profile{
		"user-1": {ID: "user-1", UserType: domain.UserTypeAgent, IsActive: false},
	}}
	app := newTestApp(NewMiddleware(&stubVerifier{subject: "user-1"}, repo))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareCookieSession(t *testing.T) {
	repo := &stubProfileRepo{profiles: map[string]*domain.Profile{
		"user-1": {ID: "user-1", UserType: domain.UserTypeAgent, IsActive: true},
	}}
	app := newTestApp(NewMiddleware(&stubVerifier{subject: "user-1"}, repo))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Cookie", "sb-access-token=good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddlewarePreflightBypass(t *testing.T) {
	app := fiber.New()
	app.Use(NewMiddleware(&stubVerifier{err: ErrInvalidToken}, &stubProfileRepo{}).Handle)
	app.Options("/anything", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodOptions, "/anything", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
