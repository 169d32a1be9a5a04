package project

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 1000
)

type UseCase struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

func New(projects repository.ProjectRepository, users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		projects: projects,
		users:    users,
		logger:   logger,
	}
}

type CreateInput struct {
	Name        string
	Description string
}

// MemberInput identifies the user to add either by id or by username.
type MemberInput struct {
	UserID   string
	Username string
}

func (uc *UseCase) Create(ctx context.Context, userID string, in CreateInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, domain.Invalidf("name must be 1-%d characters", maxNameLength)
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLength {
		return nil, domain.Invalidf("description must be at most %d characters", maxDescriptionLength)
	}

	project := &domain.Project{
		Name:        name,
		Description: in.Description,
		OwnerID:     userID,
	}
	if err := uc.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	uc.logger.Info("project created", zap.String("project_id", project.ID), zap.String("owner_id", userID))
	return project, nil
}

func (uc *UseCase) List(ctx context.Context, userID string) ([]domain.Project, error) {
	return uc.projects.ListForUser(ctx, userID)
}

// Get returns the project when the user belongs to it. Non-members get NotFound.
func (uc *UseCase) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	if err := uc.RequireMember(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return uc.projects.GetByID(ctx, projectID)
}

// RequireMember fails with ErrProjectNotFound unless the user belongs to the project.
func (uc *UseCase) RequireMember(ctx context.Context, userID, projectID string) error {
	if projectID == "" {
		return domain.ErrProjectNotFound
	}
	ok, err := uc.projects.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (uc *UseCase) ListMembers(ctx context.Context, userID, projectID string) ([]domain.ProjectMember, error) {
	if err := uc.RequireMember(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return uc.projects.ListMembers(ctx, projectID)
}

// AddMember lets the owner add another user to the project.
func (uc *UseCase) AddMember(ctx context.Context, userID, projectID string, in MemberInput) (*domain.ProjectMember, error) {
	project, err := uc.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsOwnedBy(userID) {
		return nil, domain.ErrForbidden
	}

	target, err := uc.resolveUser(ctx, in)
	if err != nil {
		return nil, err
	}

	member := &domain.ProjectMember{
		ProjectID: project.ID,
		UserID:    target.ID,
		Username:  target.Username,
		Role:      domain.MemberRoleMember,
	}
	if err := uc.projects.AddMember(ctx, member); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "user does not exist", err)
		}
		return nil, err
	}
	uc.logger.Info("project member added",
		zap.String("project_id", project.ID),
		zap.String("user_id", target.ID),
	)
	return member, nil
}

func (uc *UseCase) resolveUser(ctx context.Context, in MemberInput) (*domain.User, error) {
	var (
		user *domain.User
		err  error
	)
	switch {
	case strings.TrimSpace(in.UserID) != "":
		user, err = uc.users.GetByID(ctx, strings.TrimSpace(in.UserID))
	case strings.TrimSpace(in.Username) != "":
		user, err = uc.users.GetByLogin(ctx, strings.TrimSpace(in.Username))
	default:
		return nil, domain.Invalidf("user_id or username is required")
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "user does not exist", err)
		}
		return nil, err
	}
	return user, nil
}
