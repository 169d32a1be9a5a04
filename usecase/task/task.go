package task

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

type UseCase struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, projects repository.ProjectRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		projects: projects,
		logger:   logger,
	}
}

type CreateInput struct {
	ProjectID   string
	Title       string
	Description string
	Status      string
	Priority    string
	AssigneeID  string
	DueDate     string
}

// UpdateInput is a partial update: nil fields keep their stored value.
// An empty AssigneeID or DueDate clears it.
type UpdateInput struct {
	ProjectID   *string
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssigneeID  *string
	DueDate     *string
}

type ListInput struct {
	ProjectID  string
	AssigneeID string
	Status     string
	Priority   string
	Limit      int
	Offset     int
}

func (uc *UseCase) Create(ctx context.Context, userID string, in CreateInput) (*domain.Task, error) {
	if err := uc.requireMember(ctx, userID, in.ProjectID, domain.ErrProjectNotFound); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ProjectID: in.ProjectID,
		Status:    domain.StatusTodo,
		Priority:  domain.PriorityMedium,
	}
	var err error
	if task.Title, err = validTitle(in.Title); err != nil {
		return nil, err
	}
	if task.Description, err = validDescription(in.Description); err != nil {
		return nil, err
	}
	if in.Status != "" {
		if task.Status, err = domain.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}
	if in.Priority != "" {
		if task.Priority, err = domain.ParsePriority(in.Priority); err != nil {
			return nil, err
		}
	}
	if task.AssigneeID, err = uc.assignee(ctx, in.ProjectID, in.AssigneeID); err != nil {
		return nil, err
	}
	if task.DueDate, err = dueDate(in.DueDate); err != nil {
		return nil, err
	}

	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	uc.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("project_id", task.ProjectID),
		zap.String("user_id", userID),
	)
	return task, nil
}

// List returns the tasks visible to the user, newest first.
func (uc *UseCase) List(ctx context.Context, userID string, in ListInput) ([]domain.Task, error) {
	filter := domain.TaskFilter{
		UserID:     userID,
		ProjectID:  strings.TrimSpace(in.ProjectID),
		AssigneeID: strings.TrimSpace(in.AssigneeID),
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.Limit < 0 || in.Offset < 0 {
		return nil, domain.Invalidf("limit and offset must not be negative")
	}
	var err error
	if in.Status != "" {
		if filter.Status, err = domain.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}
	if in.Priority != "" {
		if filter.Priority, err = domain.ParsePriority(in.Priority); err != nil {
			return nil, err
		}
	}
	return uc.tasks.List(ctx, filter)
}

// Get returns the task if the user belongs to its project.
func (uc *UseCase) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := uc.requireMember(ctx, userID, task.ProjectID, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) Update(ctx context.Context, userID, taskID string, in UpdateInput) (*domain.Task, error) {
	task, err := uc.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if in.ProjectID != nil && *in.ProjectID != "" && *in.ProjectID != task.ProjectID {
		return nil, domain.Invalidf("a task cannot be moved to another project")
	}
	if in.Title != nil {
		if task.Title, err = validTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		if task.Description, err = validDescription(*in.Description); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		if task.Status, err = domain.ParseStatus(*in.Status); err != nil {
			return nil, err
		}
	}
	if in.Priority != nil {
		if task.Priority, err = domain.ParsePriority(*in.Priority); err != nil {
			return nil, err
		}
	}
	if in.AssigneeID != nil {
		if task.AssigneeID, err = uc.assignee(ctx, task.ProjectID, *in.AssigneeID); err != nil {
			return nil, err
		}
	}
	if in.DueDate != nil {
		if task.DueDate, err = dueDate(*in.DueDate); err != nil {
			return nil, err
		}
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) SetStatus(ctx context.Context, userID, taskID, raw string) (*domain.Task, error) {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	if _, err := uc.Get(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return uc.tasks.SetStatus(ctx, taskID, status)
}

func (uc *UseCase) SetPriority(ctx context.Context, userID, taskID, raw string) (*domain.Task, error) {
	priority, err := domain.ParsePriority(raw)
	if err != nil {
		return nil, err
	}
	if _, err := uc.Get(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return uc.tasks.SetPriority(ctx, taskID, priority)
}

// Delete removes the task and its comments.
func (uc *UseCase) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := uc.Get(ctx, userID, taskID); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	uc.logger.Info("task deleted", zap.String("task_id", taskID), zap.String("user_id", userID))
	return nil
}

func (uc *UseCase) requireMember(ctx context.Context, userID, projectID string, notFound error) error {
	if projectID == "" {
		return notFound
	}
	ok, err := uc.projects.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

func (uc *UseCase) assignee(ctx context.Context, projectID, raw string) (*string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return nil, nil
	}
	ok, err := uc.projects.IsMember(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Invalidf("assignee must be a member of the project")
	}
	return &id, nil
}

func validTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return "", domain.Invalidf("title must be 1-%d characters", maxTitleLength)
	}
	return title, nil
}

func validDescription(raw string) (string, error) {
	if utf8.RuneCountInString(raw) > maxDescriptionLength {
		return "", domain.Invalidf("description must be at most %d characters", maxDescriptionLength)
	}
	return raw, nil
}

func dueDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	due, err := domain.ParseDueDate(raw)
	if err != nil {
		return nil, err
	}
	return &due, nil
}
