package service

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/session-service/internal/config"
	"github.com/spec-kit/session-service/internal/domain"
	"github.com/spec-kit/session-service/internal/events"
	"github.com/spec-kit/session-service/internal/token"
	"github.com/spec-kit/session-service/pkg/util"
)

const minPasswordLength = 6

// AuthService coordinates login, registration and token lifecycle flows.
// Every operation resolves to exactly one outcome: a result, or a
// DomainError classified as validation (400), unauthorized (401) or
// server error (500).
type AuthService struct {
	verifier   CredentialVerifier
	codec      *token.Codec
	tokenTTL   time.Duration
	dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, verifier CredentialVerifier, codec *token.Codec, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		verifier:   verifier,
		codec:      codec,
		tokenTTL:   cfg.AccessTokenTTL(),
		dispatcher: dispatcher,
	}
}

// Login validates the credential shape, checks the pair against the
// verifier and mints a token on success. Shape failures never reach the
// verifier.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	if fields := validateCredentials(creds); len(fields) > 0 {
		return nil, util.NewValidationError("invalid login payload", fields)
	}

	user, err := s.verifier.VerifyCredentials(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.publish(ctx, events.EventLoginFailed, creds.Username, events.LoginFailedPayload{Reason: "invalid credentials"})
			return nil, util.NewUnauthorized("incorrect username or password")
		}
		return nil, util.NewInternalError(err)
	}

	result, err := s.mint(*user)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	s.publish(ctx, events.EventLoginSucceeded, user.Username, nil)
	return result, nil
}

// VerifyToken decodes the token and checks its expiry. Decode failures are
// reported as unauthorized, never as raw parse errors.
func (s *AuthService) VerifyToken(_ context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.codec.Decode(tokenStr)
	if err != nil {
		return nil, util.NewUnauthorized("invalid or expired token")
	}
	if claims.Expired(time.Now()) {
		return nil, util.NewUnauthorized("token expired")
	}
	user := claims.User()
	return &user, nil
}

// RefreshToken verifies the current token and, when valid, mints a fresh
// one carrying the same identity. Verification failures propagate unchanged.
func (s *AuthService) RefreshToken(ctx context.Context, tokenStr string) (*domain.AuthResult, error) {
	user, err := s.VerifyToken(ctx, tokenStr)
	if err != nil {
		return nil, err
	}

	result, err := s.mint(*user)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	s.publish(ctx, events.EventTokenRefreshed, user.Username, events.TokenRefreshedPayload{
		UserID:    user.ID,
		ExpiresAt: result.ExpiresAt,
	})
	return result, nil
}

// Register mints a token for the supplied identity. There is no persistent
// user registry, so no uniqueness check happens: registration always
// succeeds for a well-formed payload.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	name := reg.Name
	if name == "" {
		name = reg.Username
	}
	user := domain.User{
		ID:       strconv.Itoa(rand.Intn(1000)),
		Username: reg.Username,
		Email:    reg.Email,
		Name:     name,
		Roles:    []string{"user"},
	}

	result, err := s.mint(user)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.Username, events.UserRegisteredPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	return result, nil
}

// Logout always reports success. A real backend would invalidate the
// server-side session or blacklist the token here.
func (s *AuthService) Logout(ctx context.Context, _ string) error {
	s.publish(ctx, events.EventLoggedOut, "", nil)
	return nil
}

// HasPermission is a pure membership check on the user's roles.
func (s *AuthService) HasPermission(user domain.User, role string) bool {
	return user.HasRole(role)
}

func (s *AuthService) mint(user domain.User) (*domain.AuthResult, error) {
	tokenStr, expiresAt, err := s.codec.Encode(user, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: tokenStr, User: user, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, username string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Username:  username,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func validateCredentials(creds domain.Credentials) map[string][]string {
	fields := make(map[string][]string)
	if creds.Username == "" {
		fields["username"] = append(fields["username"], "username must not be empty")
	}
	if len(creds.Password) < minPasswordLength {
		fields["password"] = append(fields["password"], "password must be at least 6 characters")
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
