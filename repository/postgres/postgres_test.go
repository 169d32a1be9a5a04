package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskflow/domain"
	pgInfra "github.com/fastygo/taskflow/internal/infrastructure/postgres"
)

// openTestPool connects to TEST_DATABASE_URL, migrates it and empties every table.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := pgInfra.RunMigrations(dsn, nil); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)
	if _, err := pool.Exec(ctx, `TRUNCATE comments, tasks, project_members, projects, users CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func mustUser(t *testing.T, repo *userRepository, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "hash", IsActive: true}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	pool := openTestPool(t)
	repo := &userRepository{pool: pool}
	ctx := context.Background()
	alice := mustUser(t, repo, "alice")

	got, err := repo.GetByLogin(ctx, "ALICE@example.com")
	if err != nil || got.ID != alice.ID {
		t.Fatalf("GetByLogin by email: %v %+v", err, got)
	}

	dupName := &domain.User{Username: "alice", Email: "x@example.com", PasswordHash: "h"}
	if err := repo.Create(ctx, dupName); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("Expected username conflict, got %v", err)
	}
	dupEmail := &domain.User{Username: "alice2", Email: "Alice@Example.com", PasswordHash: "h"}
	if err := repo.Create(ctx, dupEmail); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("Expected email conflict, got %v", err)
	}

	if _, err := repo.GetByID(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected not found for a malformed id, got %v", err)
	}
}

func TestProjectTaskCommentRepositories(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	users := &userRepository{pool: pool}
	projects := &projectRepository{pool: pool}
	tasks := &taskRepository{pool: pool}
	comments := &commentRepository{pool: pool}
	analytics := &analyticsRepository{pool: pool}

	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")

	project := &domain.Project{Name: "Alpha", OwnerID: alice.ID}
	if err := projects.Create(ctx, project); err != nil {
		t.Fatalf("Create project: %v", err)
	}
	if ok, _ := projects.IsMember(ctx, project.ID, alice.ID); !ok {
		t.Error("Expected the owner to be a member")
	}
	if err := projects.AddMember(ctx, &domain.ProjectMember{ProjectID: project.ID, UserID: bob.ID, Role: domain.MemberRoleMember}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := projects.AddMember(ctx, &domain.ProjectMember{ProjectID: project.ID, UserID: bob.ID, Role: domain.MemberRoleMember}); !errors.Is(err, domain.ErrAlreadyMember) {
		t.Errorf("Expected already member, got %v", err)
	}
	if err := projects.AddMember(ctx, &domain.ProjectMember{ProjectID: project.ID, UserID: uuid.NewString(), Role: domain.MemberRoleMember}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected unknown user, got %v", err)
	}

	past := time.Now().Add(-time.Hour)
	task := &domain.Task{ProjectID: project.ID, Title: "t", Status: domain.StatusTodo, Priority: domain.PriorityHigh, DueDate: &past}
	if err := tasks.Create(ctx, task); err != nil {
		t.Fatalf("Create task: %v", err)
	}
	if _, err := tasks.SetStatus(ctx, task.ID, domain.StatusInProgress); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	listed, err := tasks.List(ctx, domain.TaskFilter{UserID: bob.ID, Status: domain.StatusInProgress})
	if err != nil || len(listed) != 1 {
		t.Fatalf("List: %v %d", err, len(listed))
	}

	counts, err := analytics.CountVisibleTasks(ctx, alice.ID, time.Now())
	if err != nil || len(counts) != 1 || counts[0].Count != 1 || counts[0].Overdue != 1 {
		t.Fatalf("CountVisibleTasks: %v %+v", err, counts)
	}

	comment := &domain.Comment{TaskID: task.ID, AuthorID: bob.ID, Content: "hi"}
	if err := comments.Create(ctx, comment); err != nil {
		t.Fatalf("Create comment: %v", err)
	}
	if err := tasks.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete task: %v", err)
	}
	if _, err := comments.GetByID(ctx, comment.ID); !errors.Is(err, domain.ErrCommentNotFound) {
		t.Errorf("Expected comment to cascade, got %v", err)
	}
}
