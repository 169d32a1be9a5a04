// Package memory keeps every repository in process memory. It mirrors the
// PostgreSQL semantics (membership visibility, cascades, unique keys) and is
// used to exercise usecases and handlers without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

// Store holds all tables behind one lock.
type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	projects map[string]domain.Project
	members  map[string]map[string]domain.ProjectMember
	tasks    map[string]domain.Task
	comments map[string]domain.Comment
	seq      int64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		projects: make(map[string]domain.Project),
		members:  make(map[string]map[string]domain.ProjectMember),
		tasks:    make(map[string]domain.Task),
		comments: make(map[string]domain.Comment),
		now:      time.Now,
	}
}

// tick returns strictly increasing timestamps so ordering by creation time is stable.
func (s *Store) tick() time.Time {
	s.seq++
	return s.now().UTC().Add(time.Duration(s.seq) * time.Microsecond)
}

func (s *Store) Users() repository.UserRepository          { return userRepo{s} }
func (s *Store) Projects() repository.ProjectRepository    { return projectRepo{s} }
func (s *Store) Tasks() repository.TaskRepository          { return taskRepo{s} }
func (s *Store) Comments() repository.CommentRepository    { return commentRepo{s} }
func (s *Store) Analytics() repository.AnalyticsRepository { return analyticsRepo{s} }

// CommentCount reports stored comments for a task, including ones no caller could reach.
func (s *Store) CommentCount(taskID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.comments {
		if c.TaskID == taskID {
			n++
		}
	}
	return n
}

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) GetByLogin(_ context.Context, identifier string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var byEmail *domain.User
	for _, u := range r.s.users {
		if u.Username == identifier {
			found := u
			return &found, nil
		}
		if strings.EqualFold(u.Email, identifier) {
			found := u
			byEmail = &found
		}
	}
	if byEmail == nil {
		return nil, domain.ErrUserNotFound
	}
	return byEmail, nil
}

func (r userRepo) Exists(_ context.Context, username, email string) (bool, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var usernameTaken, emailTaken bool
	for _, u := range r.s.users {
		usernameTaken = usernameTaken || u.Username == username
		emailTaken = emailTaken || strings.EqualFold(u.Email, email)
	}
	return usernameTaken, emailTaken, nil
}

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

type projectRepo struct{ s *Store }

func (r projectRepo) Create(_ context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[project.OwnerID]; !ok {
		return domain.ErrUserNotFound
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.CreatedAt = r.s.tick()
	project.UpdatedAt = project.CreatedAt
	r.s.projects[project.ID] = *project
	r.s.members[project.ID] = map[string]domain.ProjectMember{
		project.OwnerID: {
			ProjectID: project.ID,
			UserID:    project.OwnerID,
			Role:      domain.MemberRoleOwner,
			CreatedAt: project.CreatedAt,
		},
	}
	return nil
}

func (r projectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return &p, nil
}

func (r projectRepo) ListForUser(_ context.Context, userID string) ([]domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	projects := []domain.Project{}
	for id, members := range r.s.members {
		if _, ok := members[userID]; ok {
			projects = append(projects, r.s.projects[id])
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (r projectRepo) IsMember(_ context.Context, projectID, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.isMember(projectID, userID), nil
}

func (s *Store) isMember(projectID, userID string) bool {
	_, ok := s.members[projectID][userID]
	return ok
}

func (r projectRepo) AddMember(_ context.Context, member *domain.ProjectMember) error {
	if member == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[member.ProjectID]; !ok {
		return domain.ErrProjectNotFound
	}
	if _, ok := r.s.users[member.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	if r.s.isMember(member.ProjectID, member.UserID) {
		return domain.ErrAlreadyMember
	}
	member.CreatedAt = r.s.tick()
	r.s.members[member.ProjectID][member.UserID] = *member
	return nil
}

func (r projectRepo) ListMembers(_ context.Context, projectID string) ([]domain.ProjectMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	members := []domain.ProjectMember{}
	for _, m := range r.s.members[projectID] {
		m.Username = r.s.users[m.UserID].Username
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

type taskRepo struct{ s *Store }

func (r taskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r taskRepo) List(_ context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tasks := []domain.Task{}
	for _, t := range r.s.tasks {
		if !r.s.isMember(t.ProjectID, filter.UserID) || !filter.Matches(&t) {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(tasks) {
			return []domain.Task{}, nil
		}
		tasks = tasks[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(tasks) {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

func (r taskRepo) Create(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[task.ProjectID]; !ok {
		return domain.ErrProjectNotFound
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = r.s.tick()
	task.UpdatedAt = task.CreatedAt
	r.s.tasks[task.ID] = *task
	return nil
}

func (r taskRepo) Update(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.ProjectID = current.ProjectID
	task.CreatedAt = current.CreatedAt
	task.UpdatedAt = r.s.tick()
	r.s.tasks[task.ID] = *task
	return nil
}

func (r taskRepo) SetStatus(_ context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	return r.mutate(id, func(t *domain.Task) { t.Status = status })
}

func (r taskRepo) SetPriority(_ context.Context, id string, priority domain.TaskPriority) (*domain.Task, error) {
	return r.mutate(id, func(t *domain.Task) { t.Priority = priority })
}

func (r taskRepo) mutate(id string, apply func(*domain.Task)) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	apply(&t)
	t.UpdatedAt = r.s.tick()
	r.s.tasks[id] = t
	return &t, nil
}

func (r taskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	for cid, c := range r.s.comments {
		if c.TaskID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return &c, nil
}

func (r commentRepo) ListByTask(_ context.Context, taskID string) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	comments := []domain.Comment{}
	for _, c := range r.s.comments {
		if c.TaskID == taskID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r commentRepo) Create(_ context.Context, comment *domain.Comment) error {
	if comment == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[comment.TaskID]; !ok {
		return domain.ErrTaskNotFound
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = r.s.tick()
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r commentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.s.comments, id)
	return nil
}

type analyticsRepo struct{ s *Store }

func (r analyticsRepo) CountVisibleTasks(_ context.Context, userID string, now time.Time) ([]domain.TaskCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type key struct {
		project  string
		status   domain.TaskStatus
		priority domain.TaskPriority
	}
	grouped := make(map[key]*domain.TaskCount)
	for _, t := range r.s.tasks {
		if !r.s.isMember(t.ProjectID, userID) {
			continue
		}
		k := key{t.ProjectID, t.Status, t.Priority}
		c, ok := grouped[k]
		if !ok {
			c = &domain.TaskCount{
				ProjectID:   t.ProjectID,
				ProjectName: r.s.projects[t.ProjectID].Name,
				Status:      t.Status,
				Priority:    t.Priority,
			}
			grouped[k] = c
		}
		c.Count++
		if t.IsOverdue(now) {
			c.Overdue++
		}
	}

	counts := make([]domain.TaskCount, 0, len(grouped))
	for _, c := range grouped {
		counts = append(counts, *c)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].ProjectName != counts[j].ProjectName {
			return counts[i].ProjectName < counts[j].ProjectName
		}
		return counts[i].ProjectID < counts[j].ProjectID
	})
	return counts, nil
}
