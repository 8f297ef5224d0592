package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync"
	"time"
)

// HTTPClient abstracts the HTTP client used to fetch the key set, so
// tests can substitute a stub.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type jwksEntry struct {
	keys      map[string]any // kid -> *rsa.PublicKey or *ecdsa.PublicKey
	fetchedAt time.Time
}

// jwksCache caches the public key set fetched from the identity
// provider. Keys are refreshed after the configured TTL, and an unknown
// kid triggers an early refetch to absorb key rotation.
type jwksCache struct {
	mu     sync.RWMutex
	url    string
	entry  *jwksEntry
	ttl    time.Duration
	client HTTPClient
}

func newJWKSCache(url string, ttl time.Duration, client HTTPClient) *jwksCache {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &jwksCache{url: url, ttl: ttl, client: client}
}

// getKey resolves a verification key by key ID. A concurrent first fetch
// may run twice; the extra fetch is harmless.
func (c *jwksCache) getKey(ctx context.Context, kid string) (any, error) {
	c.mu.RLock()
	entry := c.entry
	if entry != nil && time.Since(entry.fetchedAt) < c.ttl {
		key, exists := entry.keys[kid]
		c.mu.RUnlock()
		if exists {
			return key, nil
		}
		// kid absent from the cached set; may be a rotation, refetch.
	} else {
		c.mu.RUnlock()
	}

	keys, err := c.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch key set from %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.entry = &jwksEntry{keys: keys, fetchedAt: time.Now()}
	c.mu.Unlock()

	key, exists := keys[kid]
	if !exists {
		return nil, fmt.Errorf("key %q not found in key set", kid)
	}
	return key, nil
}

type jwksResponse struct {
	Keys []jwkKey `json:"keys"`
}

// jwkKey carries only the fields needed to rebuild RSA and EC keys.
type jwkKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

func (c *jwksCache) fetch(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("key set endpoint returned status %d", resp.StatusCode)
	}

	// Response body capped at 1 MB.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var jwks jwksResponse
	if err := json.Unmarshal(body, &jwks); err != nil {
		return nil, fmt.Errorf("parse key set JSON: %w", err)
	}

	keys := make(map[string]any, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.Kid == "" {
			continue
		}
		switch k.Kty {
		case "RSA":
			pubKey, err := parseRSAPublicKey(k.N, k.E)
			if err != nil {
				continue // skip malformed keys
			}
			keys[k.Kid] = pubKey
		case "EC":
			pubKey, err := parseECPublicKey(k.Crv, k.X, k.Y)
			if err != nil {
				continue
			}
			keys[k.Kid] = pubKey
		}
	}
	return keys, nil
}

func parseRSAPublicKey(nBase64, eBase64 string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nBase64)
	if err != nil {
		return nil, fmt.Errorf("decode RSA modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eBase64)
	if err != nil {
		return nil, fmt.Errorf("decode RSA exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)

	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

func parseECPublicKey(crv, xBase64, yBase64 string) (*ecdsa.PublicKey, error) {
	var curve elliptic.Curve
	switch crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("unsupported EC curve %q", crv)
	}

	xBytes, err := base64.RawURLEncoding.DecodeString(xBase64)
	if err != nil {
		return nil, fmt.Errorf("decode EC x coordinate: %w", err)
	}
	yBytes, err := base64.RawURLEncoding.DecodeString(yBase64)
	if err != nil {
		return nil, fmt.Errorf("decode EC y coordinate: %w", err)
	}

	return &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}, nil
}
