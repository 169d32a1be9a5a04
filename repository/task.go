package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// List returns tasks of projects the filter's user belongs to, newest first.
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	SetStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	SetPriority(ctx context.Context, id string, priority domain.TaskPriority) (*domain.Task, error)
	// Delete removes the task together with its comments.
	Delete(ctx context.Context, id string) error
}
