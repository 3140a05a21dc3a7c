package auth

import (
	"context"
	"time"

	"github.com/spec-kit/session-service/internal/domain"
	"github.com/spec-kit/session-service/internal/token"
)

// Session derives authentication status from the stored token. Decode
// failures never escape this boundary: they read as "not logged in".
type Session struct {
	store *Store
	codec *token.Codec
}

// NewSession builds a session reader over the token store.
func NewSession(store *Store, codec *token.Codec) *Session {
	return &Session{store: store, codec: codec}
}

// Valid reports whether a token is present and not yet expired.
func (s *Session) Valid(ctx context.Context) bool {
	raw, ok := s.store.Load(ctx)
	if !ok {
		return false
	}
	claims, err := s.codec.Decode(raw)
	if err != nil {
		return false
	}
	return !claims.Expired(time.Now())
}

// CurrentUser returns the identity carried by the stored token, or absent
// when no token is stored, it does not decode, or it has expired.
func (s *Session) CurrentUser(ctx context.Context) (*domain.User, bool) {
	raw, ok := s.store.Load(ctx)
	if !ok {
		return nil, false
	}
	claims, err := s.codec.Decode(raw)
	if err != nil || claims.Expired(time.Now()) {
		return nil, false
	}
	user := claims.User()
	return &user, true
}

// HasRole reports whether the current user carries the given role.
func (s *Session) HasRole(ctx context.Context, role string) bool {
	user, ok := s.CurrentUser(ctx)
	if !ok {
		return false
	}
	return user.HasRole(role)
}
