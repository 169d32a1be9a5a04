package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, email, full_name, password_hash, is_active, created_at, updated_at`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !isUUID(id) {
		return nil, domain.ErrUserNotFound
	}
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	const query = `
	SELECT ` + userColumns + `
	FROM users
	WHERE username = $1 OR lower(email) = lower($1)
	ORDER BY (username = $1) DESC
	LIMIT 1
	`
	return scanUser(r.pool.QueryRow(ctx, query, identifier))
}

func (r *userRepository) Exists(ctx context.Context, username, email string) (bool, bool, error) {
	const query = `
	SELECT
		EXISTS(SELECT 1 FROM users WHERE username = $1),
		EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($2))
	`
	var usernameTaken, emailTaken bool
	if err := r.pool.QueryRow(ctx, query, username, email).Scan(&usernameTaken, &emailTaken); err != nil {
		return false, false, err
	}
	return usernameTaken, emailTaken, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO users (id, username, email, full_name, password_hash, is_active)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isPgError(err, codeUniqueViolation) {
		if constraintName(err) == "users_username_key" {
			return domain.ErrUsernameTaken
		}
		return domain.ErrEmailTaken
	}
	return err
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
