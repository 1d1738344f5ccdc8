package repository

import (
	"context"
	"errors"

	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, q Querier, u *domain.User) error
	GetByEmail(ctx context.Context, q Querier, email string) (*domain.User, error)
	GetByID(ctx context.Context, q Querier, id int64) (*domain.User, error)
}

type PGUserRepository struct{}

func NewUserRepository() UserRepository {
	return &PGUserRepository{}
}

func (r *PGUserRepository) Create(ctx context.Context, q Querier, u *domain.User) error {
	err := q.QueryRow(ctx, `INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, created_at`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("email already registered")
		}
		return err
	}
	return nil
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, q Querier, email string) (*domain.User, error) {
	row := q.QueryRow(ctx, `SELECT user_id, email, password_hash, first_name, last_name, created_at
		FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PGUserRepository) GetByID(ctx context.Context, q Querier, id int64) (*domain.User, error) {
	row := q.QueryRow(ctx, `SELECT user_id, email, password_hash, first_name, last_name, created_at
		FROM users WHERE user_id = $1`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
