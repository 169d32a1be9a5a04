package repository

import (
	"context"
	"time"

	"github.com/fastygo/taskflow/domain"
)

type AnalyticsRepository interface {
	// CountVisibleTasks groups the user's visible tasks by project, status and priority.
	CountVisibleTasks(ctx context.Context, userID string, now time.Time) ([]domain.TaskCount, error)
}
