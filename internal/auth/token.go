package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
)

// Claims is the access-token payload: subject id, username, the role
// names held at issuance, and the owning company. Role claims are
// informational for clients; validation re-resolves roles from the
// store and never trusts these.
type Claims struct {
	UserName  string   `json:"userName"`
	Roles     []string `json:"roles"`
	CompanyID int64    `json:"companyId"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 access tokens.
type TokenCodec struct {
	secret []byte
	expiry time.Duration
}

// NewTokenCodec builds a codec from the configured secret and expiry.
// An empty secret is a hard error: the service must not start with a
// guessable default.
func NewTokenCodec(secret string, expiry time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	if expiry <= 0 {
		return nil, errors.New("token expiry must be positive")
	}
	return &TokenCodec{secret: []byte(secret), expiry: expiry}, nil
}

// Expiry returns the configured token lifetime.
func (c *TokenCodec) Expiry() time.Duration {
	return c.expiry
}

// Issue signs a token for the given user. The user must already be
// sanitized; the codec never sees credentials.
func (c *TokenCodec) Issue(u model.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserName:  u.UserName,
		Roles:     u.Roles,
		CompanyID: u.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Expired, malformed or mis-signed tokens all come back as
// ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserName == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
