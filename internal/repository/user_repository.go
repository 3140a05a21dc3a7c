package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/session-service/internal/domain"
)

// UserRepository defines persistence access for basic user records.
type UserRepository interface {
	List(ctx context.Context) ([]domain.UserRecord, error)
	GetByID(ctx context.Context, id int64) (*domain.UserRecord, error)
	Create(ctx context.Context, user *domain.UserRecord) error
	Update(ctx context.Context, user *domain.UserRecord) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) List(ctx context.Context) ([]domain.UserRecord, error) {
	const query = `SELECT id, name, email FROM users ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.UserRecord
	for rows.Next() {
		var rec domain.UserRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.UserRecord, error) {
	const query = `SELECT id, name, email FROM users WHERE id=$1`

	var rec domain.UserRecord
	if err := r.pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.Name, &rec.Email); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.UserRecord) error {
	const query = `
        INSERT INTO users (name, email)
        VALUES ($1, $2)
        RETURNING id`

	return r.pool.QueryRow(ctx, query, user.Name, user.Email).Scan(&user.ID)
}

func (r *userRepository) Update(ctx context.Context, user *domain.UserRecord) error {
	const query = `UPDATE users SET name=$1, email=$2, updated_at=NOW() WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, user.Name, user.Email, user.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type memoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]domain.UserRecord
	nextID int64
}

// NewMemoryUserRepository returns an in-process implementation, seeded with
// a couple of records. Used when no database is configured, and by tests.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users: map[int64]domain.UserRecord{
			1: {ID: 1, Name: "John Doe"},
			2: {ID: 2, Name: "Jane Smith"},
		},
		nextID: 3,
	}
}

func (r *memoryUserRepository) List(_ context.Context) ([]domain.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]domain.UserRecord, 0, len(r.users))
	for _, rec := range r.users {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id int64) (*domain.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &rec, nil
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *domain.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}
