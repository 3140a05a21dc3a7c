package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/session-service/internal/auth"
	"github.com/spec-kit/session-service/internal/config"
	"github.com/spec-kit/session-service/internal/domain"
)

// ErrInvalidCredentials reports a failed username/password check.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier is the seam to the real credential backend. The
// default implementation below is an in-process stand-in.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error)
}

// staticVerifier accepts a single configured account. The password is held
// as a bcrypt hash even in this stand-in.
type staticVerifier struct {
	username     string
	passwordHash string
	displayName  string
}

// NewStaticVerifier builds the default single-account verifier from config.
func NewStaticVerifier(cfg config.AuthConfig, logger *zap.Logger) (CredentialVerifier, error) {
	hash, err := auth.HashPassword(cfg.MockPassword, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash configured password: %w", err)
	}
	logger.Info("credential verifier configured", zap.String("username", cfg.MockUsername))
	return &staticVerifier{
		username:     cfg.MockUsername,
		passwordHash: hash,
		displayName:  cfg.MockDisplayName,
	}, nil
}

func (v *staticVerifier) VerifyCredentials(_ context.Context, username, password string) (*domain.User, error) {
	if username != v.username {
		return nil, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(v.passwordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &domain.User{
		ID:       "1",
		Username: username,
		Email:    username + "@example.com",
		Name:     v.displayName,
		Roles:    []string{"user", "admin"},
	}, nil
}
