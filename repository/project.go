package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

type ProjectRepository interface {
	// Create stores the project and registers its owner as a member.
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Project, error)
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
	AddMember(ctx context.Context, member *domain.ProjectMember) error
	ListMembers(ctx context.Context, projectID string) ([]domain.ProjectMember, error)
}
