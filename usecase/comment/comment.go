package comment

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

const maxContentLength = 5000

type UseCase struct {
	comments repository.CommentRepository
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	logger   *zap.Logger
}

func New(comments repository.CommentRepository, tasks repository.TaskRepository, projects repository.ProjectRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		comments: comments,
		tasks:    tasks,
		projects: projects,
		logger:   logger,
	}
}

func (uc *UseCase) Create(ctx context.Context, userID, taskID, content string) (*domain.Comment, error) {
	if err := uc.requireTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxContentLength {
		return nil, domain.Invalidf("content must be 1-%d characters", maxContentLength)
	}

	comment := &domain.Comment{
		TaskID:   taskID,
		AuthorID: userID,
		Content:  content,
	}
	if err := uc.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	uc.logger.Debug("comment added", zap.String("comment_id", comment.ID), zap.String("task_id", taskID))
	return comment, nil
}

// List returns the task's comments oldest first.
func (uc *UseCase) List(ctx context.Context, userID, taskID string) ([]domain.Comment, error) {
	if err := uc.requireTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return uc.comments.ListByTask(ctx, taskID)
}

// Delete removes a comment. Only its author may do so.
func (uc *UseCase) Delete(ctx context.Context, userID, commentID string) error {
	comment, err := uc.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := uc.requireTask(ctx, userID, comment.TaskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return domain.ErrCommentNotFound
		}
		return err
	}
	if comment.AuthorID != userID {
		return domain.ErrForbidden
	}
	return uc.comments.Delete(ctx, commentID)
}

func (uc *UseCase) requireTask(ctx context.Context, userID, taskID string) error {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	ok, err := uc.projects.IsMember(ctx, task.ProjectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTaskNotFound
	}
	return nil
}
