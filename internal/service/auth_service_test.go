package service

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/session-service/internal/config"
	"github.com/spec-kit/session-service/internal/domain"
	"github.com/spec-kit/session-service/internal/events"
	"github.com/spec-kit/session-service/internal/token"
	"github.com/spec-kit/session-service/pkg/util"
)

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:           "unit-test-secret",
		AccessTokenTTLHours: 24,
		BcryptCost:          4,
		MockUsername:        "user",
		MockPassword:        "123456a@",
		MockDisplayName:     "Admin User",
	}
}

func newTestAuthService(t *testing.T) (*AuthService, *token.Codec) {
	t.Helper()
	cfg := testAuthCfg()
	verifier, err := NewStaticVerifier(cfg, zap.NewNop())
	require.NoError(t, err)
	codec := token.NewCodec(cfg.JWTSecret)
	return NewAuthService(cfg, verifier, codec, events.NewInMemoryDispatcher()), codec
}

func domainErr(t *testing.T, err error) *util.DomainError {
	t.Helper()
	require.Error(t, err)
	de := util.ToDomainError(err)
	require.NotNil(t, de)
	return de
}

func TestLogin_Success(t *testing.T) {
	svc, codec := newTestAuthService(t)

	result, err := svc.Login(context.Background(), domain.Credentials{
		Username: "user",
		Password: "123456a@",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "user", result.User.Username)
	require.Equal(t, "user@example.com", result.User.Email)
	require.Equal(t, []string{"user", "admin"}, result.User.Roles)

	claims, err := codec.Decode(result.Token)
	require.NoError(t, err)
	require.Equal(t, int64(86400), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
	require.Equal(t, result.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestLogin_ValidationFailures(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name      string
		creds     domain.Credentials
		wantField string
	}{
		{
			name:      "empty username",
			creds:     domain.Credentials{Username: "", Password: "123456a@"},
			wantField: "username",
		},
		{
			name:      "short password",
			creds:     domain.Credentials{Username: "user", Password: "12345"},
			wantField: "password",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Login(context.Background(), tc.creds)
			require.Nil(t, result)

			de := domainErr(t, err)
			require.Equal(t, http.StatusBadRequest, de.HTTPStatus)
			require.NotEmpty(t, de.Fields[tc.wantField])
		})
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name  string
		creds domain.Credentials
	}{
		{name: "wrong password", creds: domain.Credentials{Username: "user", Password: "wrong-password"}},
		{name: "unknown user", creds: domain.Credentials{Username: "nobody", Password: "123456a@"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Login(context.Background(), tc.creds)
			require.Nil(t, result)

			de := domainErr(t, err)
			require.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
			require.Empty(t, de.Fields)
		})
	}
}

func TestVerifyToken(t *testing.T) {
	svc, codec := newTestAuthService(t)
	identity := domain.User{ID: "1", Username: "user", Email: "user@example.com", Roles: []string{"user"}}

	t.Run("valid", func(t *testing.T) {
		signed, _, err := codec.Encode(identity, time.Hour)
		require.NoError(t, err)

		user, err := svc.VerifyToken(context.Background(), signed)
		require.NoError(t, err)
		require.Equal(t, identity, *user)
	})

	t.Run("expired", func(t *testing.T) {
		signed, _, err := codec.Encode(identity, -time.Hour)
		require.NoError(t, err)

		_, err = svc.VerifyToken(context.Background(), signed)
		de := domainErr(t, err)
		require.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.VerifyToken(context.Background(), "garbage")
		de := domainErr(t, err)
		require.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	})
}

func TestRefreshToken(t *testing.T) {
	svc, codec := newTestAuthService(t)
	identity := domain.User{ID: "1", Username: "user", Email: "user@example.com", Name: "Admin User", Roles: []string{"user", "admin"}}

	t.Run("success carries same identity with new expiry", func(t *testing.T) {
		signed, _, err := codec.Encode(identity, time.Hour)
		require.NoError(t, err)

		result, err := svc.RefreshToken(context.Background(), signed)
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)
		require.Equal(t, identity, result.User)

		claims, err := codec.Decode(result.Token)
		require.NoError(t, err)
		require.Equal(t, int64(86400), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
	})

	t.Run("expired token propagates verify failure", func(t *testing.T) {
		signed, _, err := codec.Encode(identity, -time.Hour)
		require.NoError(t, err)

		result, err := svc.RefreshToken(context.Background(), signed)
		require.Nil(t, result)
		de := domainErr(t, err)
		require.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	})
}

func TestRegister_AlwaysSucceeds(t *testing.T) {
	svc, codec := newTestAuthService(t)

	result, err := svc.Register(context.Background(), domain.Registration{
		Username: "newcomer",
		Email:    "newcomer@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"user"}, result.User.Roles)
	require.Equal(t, "newcomer", result.User.Name) // falls back to username

	_, err = strconv.Atoi(result.User.ID)
	require.NoError(t, err, "registered id is numeric")

	claims, err := codec.Decode(result.Token)
	require.NoError(t, err)
	require.Equal(t, "newcomer", claims.Username)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	svc, _ := newTestAuthService(t)
	require.NoError(t, svc.Logout(context.Background(), "any-token"))
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestHasPermission(t *testing.T) {
	svc, _ := newTestAuthService(t)
	user := domain.User{Roles: []string{"user", "admin"}}

	require.True(t, svc.HasPermission(user, "admin"))
	require.False(t, svc.HasPermission(user, "editor"))
	require.False(t, svc.HasPermission(domain.User{}, "user"))
}
