package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `t.id, t.project_id, t.title, t.description, t.status, t.priority, t.assignee_id, t.due_date, t.created_at, t.updated_at`

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if !isUUID(id) {
		return nil, domain.ErrTaskNotFound
	}
	const query = `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks t
	JOIN project_members m ON m.project_id = t.project_id AND m.user_id = $1
	WHERE ($2 = '' OR t.project_id::text = $2)
	  AND ($3 = '' OR t.status = $3)
	  AND ($4 = '' OR t.priority = $4)
	  AND ($5 = '' OR t.assignee_id::text = $5)
	ORDER BY t.created_at DESC, t.id
	LIMIT $6 OFFSET $7
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.ProjectID,
		string(filter.Status),
		string(filter.Priority),
		filter.AssigneeID,
		limitArg(filter.Limit),
		max(filter.Offset, 0),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if !isUUID(task.ProjectID) {
		return domain.ErrProjectNotFound
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, project_id, title, description, status, priority, assignee_id, due_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.ProjectID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullString(task.AssigneeID),
		nullTimePtr(task.DueDate),
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if isPgError(err, codeForeignKeyViolation) {
		return domain.ErrProjectNotFound
	}
	return err
}

// Update overwrites the mutable fields. project_id is never written.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if !isUUID(task.ID) {
		return domain.ErrTaskNotFound
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		assignee_id = $6,
		due_date = $7,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullString(task.AssigneeID),
		nullTimePtr(task.DueDate),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) SetStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !isUUID(id) {
		return nil, domain.ErrTaskNotFound
	}
	const query = `
	UPDATE tasks t SET status = $2, updated_at = NOW()
	WHERE t.id = $1
	RETURNING ` + taskColumns
	return scanTask(r.pool.QueryRow(ctx, query, id, string(status)))
}

func (r *taskRepository) SetPriority(ctx context.Context, id string, priority domain.TaskPriority) (*domain.Task, error) {
	if !isUUID(id) {
		return nil, domain.ErrTaskNotFound
	}
	const query = `
	UPDATE tasks t SET priority = $2, updated_at = NOW()
	WHERE t.id = $1
	RETURNING ` + taskColumns
	return scanTask(r.pool.QueryRow(ctx, query, id, string(priority)))
}

// Delete relies on comments.task_id ON DELETE CASCADE.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrTaskNotFound
	}
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		status   string
		priority string
		assignee *string
		due      *time.Time
	)
	if err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&assignee,
		&due,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	task.AssigneeID = assignee
	task.DueDate = due
	return &task, nil
}
