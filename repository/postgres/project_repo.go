package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at`

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertProject = `
	INSERT INTO projects (id, name, description, owner_id)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`
	if err := tx.QueryRow(ctx, insertProject,
		project.ID,
		project.Name,
		project.Description,
		project.OwnerID,
	).Scan(&project.CreatedAt, &project.UpdatedAt); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	const insertOwner = `
	INSERT INTO project_members (project_id, user_id, role, created_at)
	VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, insertOwner, project.ID, project.OwnerID, domain.MemberRoleOwner, project.CreatedAt); err != nil {
		return fmt.Errorf("insert project owner: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if !isUUID(id) {
		return nil, domain.ErrProjectNotFound
	}
	const query = `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *projectRepository) ListForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	const query = `
	SELECT ` + projectColumns + `
	FROM projects p
	JOIN project_members m ON m.project_id = p.id
	WHERE m.user_id = $1
	ORDER BY p.created_at DESC, p.id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	if !isUUID(projectID) || !isUUID(userID) {
		return false, nil
	}
	const query = `SELECT EXISTS(SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)`
	var member bool
	err := r.pool.QueryRow(ctx, query, projectID, userID).Scan(&member)
	return member, err
}

func (r *projectRepository) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	if member == nil {
		return domain.ErrInvalidPayload
	}
	if !isUUID(member.UserID) {
		return domain.ErrUserNotFound
	}
	const query = `
	INSERT INTO project_members (project_id, user_id, role)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query, member.ProjectID, member.UserID, member.Role).Scan(&member.CreatedAt)
	switch {
	case isPgError(err, codeUniqueViolation):
		return domain.ErrAlreadyMember
	case isPgError(err, codeForeignKeyViolation):
		return domain.ErrUserNotFound
	}
	return err
}

func (r *projectRepository) ListMembers(ctx context.Context, projectID string) ([]domain.ProjectMember, error) {
	const query = `
	SELECT m.project_id, m.user_id, u.username, m.role, m.created_at
	FROM project_members m
	JOIN users u ON u.id = m.user_id
	WHERE m.project_id = $1
	ORDER BY m.created_at, u.username
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.ProjectMember{}
	for rows.Next() {
		var m domain.ProjectMember
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Username, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}
