package task

import (
	"context"
	"testing"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository/memory"
)

type fixture struct {
	store   *memory.Store
	uc      *UseCase
	alice   *domain.User
	bob     *domain.User
	project *domain.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	f := &fixture{store: store, uc: New(store.Tasks(), store.Projects(), nil)}

	f.alice = &domain.User{Username: "alice", Email: "alice@example.com", IsActive: true}
	f.bob = &domain.User{Username: "bob", Email: "bob@example.com", IsActive: true}
	for _, u := range []*domain.User{f.alice, f.bob} {
		if err := store.Users().Create(ctx, u); err != nil {
			t.Fatalf("Create user: %v", err)
		}
	}
	f.project = &domain.Project{Name: "Alpha", OwnerID: f.alice.ID}
	if err := store.Projects().Create(ctx, f.project); err != nil {
		t.Fatalf("Create project: %v", err)
	}
	return f
}

func (f *fixture) createTask(t *testing.T, in CreateInput) *domain.Task {
	t.Helper()
	if in.ProjectID == "" {
		in.ProjectID = f.project.ID
	}
	task, err := f.uc.Create(context.Background(), f.alice.ID, in)
	if err != nil {
		t.Fatalf("Create task: %v", err)
	}
	return task
}

func ptr(s string) *string { return &s }

func TestCreateDefaults(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, CreateInput{Title: "Write docs"})

	if task.Status != domain.StatusTodo {
		t.Errorf("Expected default status todo, got %s", task.Status)
	}
	if task.Priority != domain.PriorityMedium {
		t.Errorf("Expected default priority medium, got %s", task.Priority)
	}
	if task.AssigneeID != nil || task.DueDate != nil {
		t.Errorf("Expected no assignee and no due date, got %+v", task)
	}
}

func TestCreateRejects(t *testing.T) {
	f := newFixture(t)
	foreign := &domain.Project{Name: "Bob's", OwnerID: f.bob.ID}
	if err := f.store.Projects().Create(context.Background(), foreign); err != nil {
		t.Fatalf("Create project: %v", err)
	}

	tests := []struct {
		name     string
		input    CreateInput
		wantCode domain.ErrorCode
	}{
		{"foreign project", CreateInput{ProjectID: foreign.ID, Title: "x"}, domain.ErrCodeNotFound},
		{"missing project", CreateInput{ProjectID: "missing", Title: "x"}, domain.ErrCodeNotFound},
		{"empty title", CreateInput{ProjectID: f.project.ID, Title: "  "}, domain.ErrCodeInvalid},
		{"bad status", CreateInput{ProjectID: f.project.ID, Title: "x", Status: "blocked"}, domain.ErrCodeInvalid},
		{"bad priority", CreateInput{ProjectID: f.project.ID, Title: "x", Priority: "critical"}, domain.ErrCodeInvalid},
		{"non-member assignee", CreateInput{ProjectID: f.project.ID, Title: "x", AssigneeID: f.bob.ID}, domain.ErrCodeInvalid},
		{"bad due date", CreateInput{ProjectID: f.project.ID, Title: "x", DueDate: "tomorrow"}, domain.ErrCodeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.uc.Create(context.Background(), f.alice.ID, tt.input); !domain.IsDomainError(err, tt.wantCode) {
				t.Errorf("Expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createTask(t, CreateInput{Title: "a", Status: "To Do", Priority: "low"})
	f.createTask(t, CreateInput{Title: "b", Status: "in-progress", Priority: "high"})
	newest := f.createTask(t, CreateInput{Title: "c", Status: "done", Priority: "high", AssigneeID: f.alice.ID})

	tests := []struct {
		name  string
		input ListInput
		want  int
	}{
		{"all", ListInput{}, 3},
		{"status", ListInput{Status: "In Progress"}, 1},
		{"priority", ListInput{Priority: "HIGH"}, 2},
		{"status and priority", ListInput{Status: "done", Priority: "high"}, 1},
		{"assignee", ListInput{AssigneeID: f.alice.ID}, 1},
		{"project", ListInput{ProjectID: f.project.ID}, 3},
		{"limit", ListInput{Limit: 2}, 2},
		{"offset", ListInput{Offset: 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := f.uc.List(ctx, f.alice.ID, tt.input)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(tasks) != tt.want {
				t.Errorf("Expected %d tasks, got %d", tt.want, len(tasks))
			}
		})
	}

	all, _ := f.uc.List(ctx, f.alice.ID, ListInput{})
	if all[0].ID != newest.ID {
		t.Errorf("Expected newest task first, got %s", all[0].Title)
	}

	outsider, err := f.uc.List(ctx, f.bob.ID, ListInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(outsider) != 0 {
		t.Errorf("Expected no visible tasks for a non-member, got %d", len(outsider))
	}

	if _, err := f.uc.List(ctx, f.alice.ID, ListInput{Status: "blocked"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("Expected invalid status filter to fail, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	original := f.createTask(t, CreateInput{Title: "a", Description: "keep me", AssigneeID: f.alice.ID, DueDate: "2030-01-02"})

	updated, err := f.uc.Update(ctx, f.alice.ID, original.ID, UpdateInput{Title: ptr("renamed"), Priority: ptr("urgent")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "renamed" || updated.Priority != domain.PriorityUrgent {
		t.Errorf("Expected supplied fields to change, got %+v", updated)
	}
	if updated.Description != "keep me" || updated.AssigneeID == nil || updated.DueDate == nil {
		t.Errorf("Expected absent fields to be preserved, got %+v", updated)
	}

	cleared, err := f.uc.Update(ctx, f.alice.ID, original.ID, UpdateInput{AssigneeID: ptr(""), DueDate: ptr("")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cleared.AssigneeID != nil || cleared.DueDate != nil {
		t.Errorf("Expected assignee and due date to be cleared, got %+v", cleared)
	}

	if _, err := f.uc.Update(ctx, f.alice.ID, original.ID, UpdateInput{ProjectID: ptr("other")}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("Expected moving projects to be rejected, got %v", err)
	}
	if _, err := f.uc.Update(ctx, f.alice.ID, original.ID, UpdateInput{ProjectID: ptr(f.project.ID), Title: ptr("same project")}); err != nil {
		t.Errorf("Expected the current project id to be accepted, got %v", err)
	}
	if _, err := f.uc.Update(ctx, f.bob.ID, original.ID, UpdateInput{Title: ptr("hijack")}); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Expected not found for non-member, got %v", err)
	}
}

func TestSetStatusAndPriority(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task := f.createTask(t, CreateInput{Title: "a"})

	got, err := f.uc.SetStatus(ctx, f.alice.ID, task.ID, "In Progress")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got.Status != domain.StatusInProgress {
		t.Errorf("Expected in_progress, got %s", got.Status)
	}

	if _, err := f.uc.SetStatus(ctx, f.alice.ID, task.ID, "archived"); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("Expected invalid status, got %v", err)
	}
	stored, _ := f.uc.Get(ctx, f.alice.ID, task.ID)
	if stored.Status != domain.StatusInProgress {
		t.Errorf("Expected status to stay in_progress after a rejected change, got %s", stored.Status)
	}

	got, err = f.uc.SetPriority(ctx, f.alice.ID, task.ID, "urgent")
	if err != nil {
		t.Fatalf("SetPriority: %v", err)
	}
	if got.Priority != domain.PriorityUrgent {
		t.Errorf("Expected urgent, got %s", got.Priority)
	}
	if _, err := f.uc.SetPriority(ctx, f.bob.ID, task.ID, "low"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Expected not found for non-member, got %v", err)
	}
}

func TestDeleteCascadesComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task := f.createTask(t, CreateInput{Title: "a"})
	if err := f.store.Comments().Create(ctx, &domain.Comment{TaskID: task.ID, AuthorID: f.alice.ID, Content: "hi"}); err != nil {
		t.Fatalf("Create comment: %v", err)
	}

	if err := f.uc.Delete(ctx, f.bob.ID, task.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Expected not found for non-member, got %v", err)
	}
	if err := f.uc.Delete(ctx, f.alice.ID, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.uc.Get(ctx, f.alice.ID, task.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Expected deleted task to be gone, got %v", err)
	}
	if n := f.store.CommentCount(task.ID); n != 0 {
		t.Errorf("Expected comments to be removed with the task, got %d", n)
	}
}
