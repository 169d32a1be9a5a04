package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type analyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) repository.AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) CountVisibleTasks(ctx context.Context, userID string, now time.Time) ([]domain.TaskCount, error) {
	const query = `
	SELECT p.id, p.name, t.status, t.priority,
		COUNT(*),
		COUNT(*) FILTER (WHERE t.status <> 'done' AND t.due_date IS NOT NULL AND t.due_date < $2)
	FROM tasks t
	JOIN projects p ON p.id = t.project_id
	JOIN project_members m ON m.project_id = p.id AND m.user_id = $1
	GROUP BY p.id, p.name, t.status, t.priority
	ORDER BY p.name, p.id
	`
	rows, err := r.pool.Query(ctx, query, userID, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.TaskCount
	for rows.Next() {
		var (
			c        domain.TaskCount
			status   string
			priority string
		)
		if err := rows.Scan(&c.ProjectID, &c.ProjectName, &status, &priority, &c.Count, &c.Overdue); err != nil {
			return nil, err
		}
		c.Status = domain.TaskStatus(status)
		c.Priority = domain.TaskPriority(priority)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
