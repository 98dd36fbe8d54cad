package postgres

import (
	"context"
	"database/sql"
	"errors"

	"meetupfinder/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, name, username, COALESCE(email, ''), created_at, updated_at
		FROM users
		WHERE id = $1
	`
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isPQCode(err, pqInvalidTextRepresentation) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError(ctx, "get user", err)
	}
	return u, nil
}

func (r *userRepository) UpdateEmail(ctx context.Context, id, email string) (*domain.User, error) {
	query := `
		UPDATE users SET email = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, username, COALESCE(email, ''), created_at, updated_at
	`
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, email, id).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isPQCode(err, pqInvalidTextRepresentation) {
			return nil, domain.ErrUserNotFound
		}
		if isPQCode(err, pqUniqueViolation) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, storeError(ctx, "update user email", err)
	}
	return u, nil
}
