package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type UseCase struct {
	counts repository.AnalyticsRepository
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*UseCase)

// WithClock sets the time used to decide whether a task is overdue.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

func New(counts repository.AnalyticsRepository, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		counts: counts,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Summarize derives the dashboard summary from the tasks the user can see.
// Nothing is cached, every call reflects the current store.
func (uc *UseCase) Summarize(ctx context.Context, userID string) (*domain.Summary, error) {
	rows, err := uc.counts.CountVisibleTasks(ctx, userID, uc.now())
	if err != nil {
		return nil, err
	}

	summary := domain.NewSummary()
	index := make(map[string]int)
	for _, row := range rows {
		summary.Total += row.Count
		summary.Overdue += row.Overdue
		summary.ByStatus[row.Status] += row.Count
		summary.ByPriority[row.Priority] += row.Count

		i, ok := index[row.ProjectID]
		if !ok {
			i = len(summary.ByProject)
			index[row.ProjectID] = i
			summary.ByProject = append(summary.ByProject, domain.ProjectTotals{
				ProjectID:   row.ProjectID,
				ProjectName: row.ProjectName,
			})
		}
		summary.ByProject[i].Total += row.Count
		if row.Status == domain.StatusDone {
			summary.ByProject[i].Done += row.Count
		}
	}
	return summary, nil
}
