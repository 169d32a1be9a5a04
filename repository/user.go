package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByLogin resolves a username or an email address.
	GetByLogin(ctx context.Context, identifier string) (*domain.User, error)
	Exists(ctx context.Context, username, email string) (usernameTaken bool, emailTaken bool, err error)
	Create(ctx context.Context, user *domain.User) error
}
