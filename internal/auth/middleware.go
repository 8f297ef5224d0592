package auth

import (
	"context"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/staffdesk/helpdesk-api/internal/domain"
	"github.com/staffdesk/helpdesk-api/internal/repository"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

const currentUserKey = "auth_current_user"

// accessTokenCookie is the cookie the web console stores its session
// token under.
const accessTokenCookie = "sb-access-token"

// Verifier validates a raw bearer token and returns its subject.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (string, error)
}

// Middleware verifies bearer tokens and resolves the subject to an
// active profile, attaching it to the request. Verification failures and
// missing/inactive profiles are indistinguishable to the caller: all are
// 401, so account existence never leaks.
type Middleware struct {
	verifier Verifier
	profiles repository.ProfileRepository
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(verifier Verifier, profiles repository.ProfileRepository) *Middleware {
	return &Middleware{verifier: verifier, profiles: profiles}
}

// Handle enforces authentication for protected routes. Preflight
// requests pass through untouched.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodOptions {
		return c.Next()
	}

	token := ExtractBearerToken(c.Get("Authorization"), c.Get("Cookie"))
	if token == "" {
		return apperrors.NewUnauthorized("missing bearer token")
	}

	subject, err := m.verifier.Verify(c.UserContext(), token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	profile, err := m.profiles.GetByID(c.UserContext(), subject)
	if err != nil || profile == nil || !profile.IsActive {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(currentUserKey, profile)
	return c.Next()
}

// ExtractBearerToken pulls a token from the Authorization header first,
// then from the session cookie in the raw cookie header.
func ExtractBearerToken(authHeader, cookieHeader string) string {
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(authHeader[len("Bearer "):]); token != "" {
			return token
		}
	}
	return tokenFromCookieHeader(cookieHeader, accessTokenCookie)
}

// tokenFromCookieHeader parses a raw Cookie header by splitting on ';'
// and then on the first '='. Values are URL-decoded.
func tokenFromCookieHeader(cookieHeader, name string) string {
	if cookieHeader == "" {
		return ""
	}
	for _, part := range strings.Split(cookieHeader, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found || key != name {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			return value
		}
		return decoded
	}
	return ""
}

// CurrentUser retrieves the authenticated profile from the request.
func CurrentUser(c *fiber.Ctx) (*domain.Profile, bool) {
	val := c.Locals(currentUserKey)
	if val == nil {
		return nil, false
	}
	profile, ok := val.(*domain.Profile)
	return profile, ok
}

// SetCurrentUser attaches a profile to the request. Exposed for handler
// tests that bypass the middleware.
func SetCurrentUser(c *fiber.Ctx, profile *domain.Profile) {
	c.Locals(currentUserKey, profile)
}
