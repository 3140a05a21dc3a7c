package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/session-service/internal/domain"
	"github.com/spec-kit/session-service/internal/repository"
	"github.com/spec-kit/session-service/pkg/util"
)

// UserService serves the basic user records behind the /users endpoints.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ListUsers returns every known record.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.UserRecord, error) {
	records, err := s.users.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return records, nil
}

// GetUser returns one record by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.UserRecord, error) {
	rec, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user")
		}
		return nil, util.MapError(err)
	}
	return rec, nil
}

// CreateUser stores a new record.
func (s *UserService) CreateUser(ctx context.Context, rec *domain.UserRecord) error {
	if rec.Name == "" {
		return util.NewBadRequest("name is required")
	}
	if err := s.users.Create(ctx, rec); err != nil {
		return util.MapError(err)
	}
	return nil
}

// UpdateUser applies a partial update to an existing record.
func (s *UserService) UpdateUser(ctx context.Context, id int64, name, email *string) (*domain.UserRecord, error) {
	if name == nil && email == nil {
		return nil, util.NewBadRequest("no data provided for update")
	}

	rec, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		rec.Name = *name
	}
	if email != nil {
		rec.Email = *email
	}
	if err := s.users.Update(ctx, rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user")
		}
		return nil, util.MapError(err)
	}
	return rec, nil
}

// DeleteUser removes a record by id.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("user")
		}
		return util.MapError(err)
	}
	return nil
}
