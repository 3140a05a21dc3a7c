// Package state holds the process-wide auth state mirror. Mutation goes
// through an enumerable set of transition methods: every async operation
// has pending/fulfilled/rejected variants, applied under one lock.
package state

import (
	"context"
	"sync"

	"github.com/spec-kit/session-service/internal/domain"
	"github.com/spec-kit/session-service/internal/service"
	"github.com/spec-kit/session-service/pkg/util"
)

// AuthState is the snapshot consumed by UI-facing code.
type AuthState struct {
	Token           string
	User            *domain.User
	IsAuthenticated bool
	Loading         bool
	Error           *util.DomainError
}

// TokenPersister is the token store surface the state store needs.
type TokenPersister interface {
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Store owns the auth state and drives the auth service. Overlapping calls
// to the same operation are not deduplicated: the last resolution to apply
// wins.
type Store struct {
	mu     sync.Mutex
	state  AuthState
	auth   *service.AuthService
	tokens TokenPersister
}

// NewStore builds the state store.
func NewStore(auth *service.AuthService, tokens TokenPersister) *Store {
	return &Store{auth: auth, tokens: tokens}
}

// State returns a copy of the current state.
func (s *Store) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	if s.state.User != nil {
		user := *s.state.User
		state.User = &user
	}
	return state
}

// Login dispatches the login operation.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	s.loginPending()
	result, err := s.auth.Login(ctx, creds)
	if err != nil {
		s.loginRejected(util.ToDomainError(err))
		return nil, err
	}
	s.loginFulfilled(result)
	_ = s.tokens.Save(ctx, result.Token)
	return result, nil
}

// Register dispatches the register operation.
func (s *Store) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	s.registerPending()
	result, err := s.auth.Register(ctx, reg)
	if err != nil {
		s.registerRejected(util.ToDomainError(err))
		return nil, err
	}
	s.registerFulfilled(result)
	if result.Token != "" {
		_ = s.tokens.Save(ctx, result.Token)
	}
	return result, nil
}

// Logout dispatches the logout operation. Local state and the persisted
// token are cleared even when the service call fails.
func (s *Store) Logout(ctx context.Context) error {
	s.logoutPending()
	tokenStr := s.State().Token
	err := s.auth.Logout(ctx, tokenStr)
	if err != nil {
		s.logoutRejected()
	} else {
		s.logoutFulfilled()
	}
	_ = s.tokens.Clear(ctx)
	return nil
}

// Verify dispatches the verify-token operation against the current token.
func (s *Store) Verify(ctx context.Context) (*domain.User, error) {
	s.verifyPending()
	tokenStr := s.State().Token
	if tokenStr == "" {
		err := util.NewUnauthorized("no token")
		s.verifyRejected()
		return nil, err
	}
	user, err := s.auth.VerifyToken(ctx, tokenStr)
	if err != nil {
		s.verifyRejected()
		return nil, err
	}
	s.verifyFulfilled(user)
	return user, nil
}

// Refresh dispatches the refresh-token operation against the current token.
func (s *Store) Refresh(ctx context.Context) (*domain.AuthResult, error) {
	s.refreshPending()
	tokenStr := s.State().Token
	if tokenStr == "" {
		err := util.NewUnauthorized("no token to refresh")
		s.refreshRejected()
		return nil, err
	}
	result, err := s.auth.RefreshToken(ctx, tokenStr)
	if err != nil {
		s.refreshRejected()
		return nil, err
	}
	s.refreshFulfilled(result)
	_ = s.tokens.Save(ctx, result.Token)
	return result, nil
}

// SetCredentials force-sets token and user, and persists the token.
func (s *Store) SetCredentials(ctx context.Context, tokenStr string, user domain.User) {
	s.mu.Lock()
	s.state.Token = tokenStr
	s.state.User = &user
	s.state.IsAuthenticated = true
	s.mu.Unlock()
	_ = s.tokens.Save(ctx, tokenStr)
}

// ClearCredentials clears all identity fields and the persisted token.
func (s *Store) ClearCredentials(ctx context.Context) {
	s.mu.Lock()
	s.state = AuthState{}
	s.mu.Unlock()
	_ = s.tokens.Clear(ctx)
}

// ClearError resets the error field.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = nil
}

// UserUpdate carries a shallow partial update of the current user.
type UserUpdate struct {
	Name      *string
	Email     *string
	AvatarURL *string
}

// UpdateUserInfo shallow-merges the update into the current user. No-op
// when no user is set.
func (s *Store) UpdateUserInfo(update UserUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return
	}
	if update.Name != nil {
		s.state.User.Name = *update.Name
	}
	if update.Email != nil {
		s.state.User.Email = *update.Email
	}
	if update.AvatarURL != nil {
		s.state.User.AvatarURL = *update.AvatarURL
	}
}

func (s *Store) loginPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Error = nil
}

func (s *Store) loginFulfilled(result *domain.AuthResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := result.User
	s.state.Token = result.Token
	s.state.User = &user
	s.state.IsAuthenticated = true
	s.state.Loading = false
	s.state.Error = nil
}

func (s *Store) loginRejected(err *util.DomainError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsAuthenticated = false
	s.state.Loading = false
	s.state.Error = err
}

func (s *Store) registerPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Error = nil
}

func (s *Store) registerFulfilled(result *domain.AuthResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if result.Token != "" {
		user := result.User
		s.state.Token = result.Token
		s.state.User = &user
		s.state.IsAuthenticated = true
	}
	s.state.Loading = false
}

func (s *Store) registerRejected(err *util.DomainError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Error = err
}

func (s *Store) logoutPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
}

func (s *Store) logoutFulfilled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = AuthState{}
}

// logoutRejected clears identity anyway: logout always succeeds from the
// client's perspective.
func (s *Store) logoutRejected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = ""
	s.state.User = nil
	s.state.IsAuthenticated = false
	s.state.Loading = false
}

func (s *Store) verifyPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
}

func (s *Store) verifyFulfilled(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user != nil {
		u := *user
		s.state.User = &u
		s.state.IsAuthenticated = true
	}
	s.state.Loading = false
	s.state.Error = nil
}

func (s *Store) verifyRejected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = ""
	s.state.User = nil
	s.state.IsAuthenticated = false
	s.state.Loading = false
}

func (s *Store) refreshPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
}

func (s *Store) refreshFulfilled(result *domain.AuthResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = result.Token
	s.state.IsAuthenticated = true
	s.state.Loading = false
}

func (s *Store) refreshRejected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
}
