package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// minKeySize is the smallest HMAC key the manager will sign with. Secrets
// shorter than this are zero-padded, never truncated and never hashed, so
// the signatures a given secret produces stay stable across deployments.
const minKeySize = 32

// Config holds the signing material and lifetime for access tokens.
type Config struct {
	Secret    []byte
	AccessTTL time.Duration
}

// AccessClaims is the claim set carried by every access token: a random
// unique ID (jti), the subject username, the role claim, and the
// registered issued-at/expiry timestamps.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256-signed access tokens. It is stateless
// apart from the normalized signing key and safe for concurrent use.
type Manager struct {
	key []byte
	ttl time.Duration
}

// NewManager validates the configuration and derives the signing key.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("hs256 requires signing secret")
	}

	return &Manager{
		key: NormalizeKey(cfg.Secret),
		ttl: cfg.AccessTTL,
	}, nil
}

// NormalizeKey returns the HMAC key derived from secret: secrets of at
// least 32 bytes are used as-is, shorter secrets are right-padded with
// zero bytes to exactly 32. Zero padding is a known-weak derivation kept
// for signature compatibility with existing deployments.
func NormalizeKey(secret []byte) []byte {
	if len(secret) >= minKeySize {
		key := make([]byte, len(secret))
		copy(key, secret)
		return key
	}

	key := make([]byte, minKeySize)
	copy(key, secret)
	return key
}

// CreateAccess mints a signed access token for the username+role pair with
// a fresh random jti, issued-at = now, and expiry = now + AccessTTL.
func (m *Manager) CreateAccess(username, role string) (string, error) {
	now := time.Now()

	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.key)
}

// ParseAccess verifies the signature, structure, and expiry of a token and
// returns its claims. Any malformed, forged, or expired token yields an
// error; the caller is expected to fail closed.
func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// ExtractClaims verifies signature and structure only, skipping claim
// validation. It exists for identity extraction from tokens the caller has
// already validated; extraction does not re-check expiry or revocation.
func (m *Manager) ExtractClaims(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
