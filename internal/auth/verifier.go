package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/staffdesk/helpdesk-api/internal/config"
)

// ErrInvalidToken covers every verification failure: bad signature,
// wrong issuer, expiry, malformed structure.
var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier validates bearer tokens against the identity provider's
// remote key set and extracts the subject identifier. It carries no state
// beyond the cached key set and is safe for concurrent use.
type TokenVerifier struct {
	issuer string
	jwks   *jwksCache
}

// NewTokenVerifier builds a verifier from auth configuration. The key-set
// URL and expected issuer derive from the configured base URL or project
// reference.
func NewTokenVerifier(cfg config.AuthConfig, client HTTPClient) (*TokenVerifier, error) {
	issuer, err := cfg.Issuer()
	if err != nil {
		return nil, err
	}
	jwksURL, err := cfg.KeySetURL()
	if err != nil {
		return nil, err
	}
	return &TokenVerifier{
		issuer: issuer,
		jwks:   newJWKSCache(jwksURL, cfg.JWKSCacheTTL(), client),
	}, nil
}

// Verify checks signature, issuer and expiry, returning the token's
// subject. Activation state is the session resolver's concern, not ours.
func (v *TokenVerifier) Verify(ctx context.Context, rawToken string) (string, error) {
	keyfunc := func(token *jwt.Token) (any, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
		default:
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token missing kid header")
		}
		return v.jwks.getKey(ctx, kid)
	}

	parsed, err := jwt.Parse(rawToken, keyfunc,
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
