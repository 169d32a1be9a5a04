package domain

// TaskCount is one grouped row of visible tasks.
type TaskCount struct {
	ProjectID   string
	ProjectName string
	Status      TaskStatus
	Priority    TaskPriority
	Overdue     int
	Count       int
}

// ProjectTotals summarizes tasks of a single project.
type ProjectTotals struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Total       int    `json:"total"`
	Done        int    `json:"done"`
}

// Summary is derived on demand from the tasks a user can see.
type Summary struct {
	Total      int                  `json:"total"`
	ByStatus   map[TaskStatus]int   `json:"by_status"`
	ByPriority map[TaskPriority]int `json:"by_priority"`
	ByProject  []ProjectTotals      `json:"by_project"`
	Overdue    int                  `json:"overdue"`
}

// NewSummary returns a summary with every status and priority key present.
func NewSummary() *Summary {
	s := &Summary{
		ByStatus:   make(map[TaskStatus]int, len(Statuses)),
		ByPriority: make(map[TaskPriority]int, len(Priorities)),
		ByProject:  []ProjectTotals{},
	}
	for _, st := range Statuses {
		s.ByStatus[st] = 0
	}
	for _, p := range Priorities {
		s.ByPriority[p] = 0
	}
	return s
}
