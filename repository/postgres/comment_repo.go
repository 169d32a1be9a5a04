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

type commentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) repository.CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	if !isUUID(id) {
		return nil, domain.ErrCommentNotFound
	}
	const query = `SELECT id, task_id, author_id, content, created_at FROM comments WHERE id = $1`
	return scanComment(r.pool.QueryRow(ctx, query, id))
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error) {
	if !isUUID(taskID) {
		return []domain.Comment{}, nil
	}
	const query = `
	SELECT id, task_id, author_id, content, created_at
	FROM comments
	WHERE task_id = $1
	ORDER BY created_at ASC, id
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if comment == nil {
		return domain.ErrInvalidPayload
	}
	if !isUUID(comment.TaskID) {
		return domain.ErrTaskNotFound
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	const query = `
	INSERT INTO comments (id, task_id, author_id, content)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query, comment.ID, comment.TaskID, comment.AuthorID, comment.Content).Scan(&comment.CreatedAt)
	if isPgError(err, codeForeignKeyViolation) {
		// the task was deleted between the access check and the insert
		return domain.ErrTaskNotFound
	}
	return err
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrCommentNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}
