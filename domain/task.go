package domain

import (
	"strings"
	"time"
)

// TaskStatus is the fixed three-state workflow of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Statuses lists every status in workflow order.
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

// ParseStatus accepts the canonical value or its display form ("To Do", "in-progress", ...).
func ParseStatus(raw string) (TaskStatus, error) {
	switch normalizeEnum(raw) {
	case "todo":
		return StatusTodo, nil
	case "inprogress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Label returns the human readable form used by the dashboard.
func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// TaskPriority is ordered: low < medium < high < urgent.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Priorities lists every priority in ascending order.
var Priorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func ParsePriority(raw string) (TaskPriority, error) {
	value := TaskPriority(normalizeEnum(raw))
	for _, p := range Priorities {
		if p == value {
			return p, nil
		}
	}
	return "", ErrInvalidPriority
}

// Rank returns the position of the priority in the ordered set, or -1.
func (p TaskPriority) Rank() int {
	for i, candidate := range Priorities {
		if candidate == p {
			return i
		}
	}
	return -1
}

// ParseDueDate accepts RFC 3339 timestamps or plain dates (midnight UTC).
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, Invalidf("due_date must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

func normalizeEnum(raw string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return replacer.Replace(strings.ToLower(strings.TrimSpace(raw)))
}

// Task is the unit of work tracked inside a project.
type Task struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"project_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  *string      `json:"assignee_id"`
	DueDate     *time.Time   `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusDone
}

// IsOverdue reports whether an unfinished task is past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	return t != nil && !t.IsCompleted() && t.DueDate != nil && t.DueDate.Before(now)
}

// TaskFilter narrows a task listing. Empty fields do not restrict.
type TaskFilter struct {
	UserID     string
	ProjectID  string
	AssigneeID string
	Status     TaskStatus
	Priority   TaskPriority
	Limit      int
	Offset     int
}

// Matches reports whether the task satisfies every non-empty filter field.
// Visibility (UserID) is resolved by the repository.
func (f TaskFilter) Matches(t *Task) bool {
	if t == nil {
		return false
	}
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.AssigneeID != "" && (t.AssigneeID == nil || *t.AssigneeID != f.AssigneeID) {
		return false
	}
	return true
}
