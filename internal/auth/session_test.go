package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-service/internal/domain"
	"github.com/spec-kit/session-service/internal/token"
)

func sessionFixture(t *testing.T) (*Session, *Store, *token.Codec) {
	t.Helper()
	store := newTestStore()
	codec := token.NewCodec("unit-test-secret")
	return NewSession(store, codec), store, codec
}

func sessionUser() domain.User {
	return domain.User{
		ID:       "1",
		Username: "user",
		Email:    "user@example.com",
		Name:     "Admin User",
		Roles:    []string{"user", "admin"},
	}
}

func TestSession_NoToken(t *testing.T) {
	session, _, _ := sessionFixture(t)
	ctx := context.Background()

	require.False(t, session.Valid(ctx))
	_, ok := session.CurrentUser(ctx)
	require.False(t, ok)
	require.False(t, session.HasRole(ctx, "admin"))
}

func TestSession_ValidToken(t *testing.T) {
	session, store, codec := sessionFixture(t)
	ctx := context.Background()

	signed, _, err := codec.Encode(sessionUser(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, signed))

	require.True(t, session.Valid(ctx))

	user, ok := session.CurrentUser(ctx)
	require.True(t, ok)
	require.Equal(t, sessionUser(), *user)

	require.True(t, session.HasRole(ctx, "admin"))
	require.False(t, session.HasRole(ctx, "editor"))
}

func TestSession_ExpiredToken(t *testing.T) {
	session, store, codec := sessionFixture(t)
	ctx := context.Background()

	signed, _, err := codec.Encode(sessionUser(), -time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, signed))

	require.False(t, session.Valid(ctx))
	_, ok := session.CurrentUser(ctx)
	require.False(t, ok)
	require.False(t, session.HasRole(ctx, "admin"))
}

func TestSession_MalformedToken(t *testing.T) {
	session, store, _ := sessionFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "not-a-token"))

	require.False(t, session.Valid(ctx))
	_, ok := session.CurrentUser(ctx)
	require.False(t, ok)
	require.False(t, session.HasRole(ctx, "user"))
}
