package token

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/session-service/internal/domain"
)

// ErrMalformedToken reports a token that cannot be decoded: wrong segment
// structure, undecodable payload, or a signature that does not verify.
var ErrMalformedToken = errors.New("malformed token")

// Codec issues and decodes signed session tokens.
type Codec struct {
	secret []byte
}

// NewCodec builds a codec signing with the given HMAC secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Claims describes the token payload.
type Claims struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Name     string   `json:"name,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// User maps the claims to the session identity.
func (c *Claims) User() domain.User {
	return domain.User{
		ID:       c.Subject,
		Username: c.Username,
		Email:    c.Email,
		Name:     c.Name,
		Roles:    c.Roles,
	}
}

// Expired reports whether the expiry claim has passed, in whole seconds.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Unix() <= now.Unix()
}

// Encode stamps issued-at and expiry on the identity and signs the result.
func (cd *Codec) Encode(user domain.User, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
		Roles:    user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cd.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode verifies the signature and returns the claims. Expiry is not
// enforced here: callers branch on Expired so that expired tokens can still
// be inspected by the refresh flow.
func (cd *Codec) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return cd.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrMalformedToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
