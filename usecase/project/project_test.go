package project

import (
	"context"
	"strings"
	"testing"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository/memory"
)

func seedUser(t *testing.T, store *memory.Store, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: username + "@example.com", IsActive: true}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	return user
}

func TestCreateAndList(t *testing.T) {
	store := memory.NewStore()
	uc := New(store.Projects(), store.Users(), nil)
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	ctx := context.Background()

	first, err := uc.Create(ctx, alice.ID, CreateInput{Name: "  Alpha  ", Description: "first"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Name != "Alpha" || first.OwnerID != alice.ID {
		t.Errorf("Unexpected project %+v", first)
	}
	second, err := uc.Create(ctx, alice.ID, CreateInput{Name: "Beta"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	projects, err := uc.List(ctx, alice.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(projects) != 2 || projects[0].ID != second.ID {
		t.Errorf("Expected 2 projects newest first, got %+v", projects)
	}

	others, err := uc.List(ctx, bob.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(others) != 0 {
		t.Errorf("Expected no projects for a non-member, got %d", len(others))
	}

	members, err := uc.ListMembers(ctx, alice.ID, first.ID)
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 1 || members[0].UserID != alice.ID || members[0].Role != domain.MemberRoleOwner {
		t.Errorf("Expected the owner as the only member, got %+v", members)
	}
}

func TestCreateValidation(t *testing.T) {
	store := memory.NewStore()
	uc := New(store.Projects(), store.Users(), nil)
	alice := seedUser(t, store, "alice")

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"empty name", CreateInput{Name: "   "}},
		{"long name", CreateInput{Name: strings.Repeat("n", 101)}},
		{"long description", CreateInput{Name: "ok", Description: strings.Repeat("d", 1001)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Create(context.Background(), alice.ID, tt.input); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Errorf("Expected invalid error, got %v", err)
			}
		})
	}
}

func TestGetHidesForeignProjects(t *testing.T) {
	store := memory.NewStore()
	uc := New(store.Projects(), store.Users(), nil)
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	project, err := uc.Create(context.Background(), alice.ID, CreateInput{Name: "Alpha"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, foreign := uc.Get(context.Background(), bob.ID, project.ID)
	_, missing := uc.Get(context.Background(), bob.ID, "does-not-exist")
	if !domain.IsDomainError(foreign, domain.ErrCodeNotFound) || !domain.IsDomainError(missing, domain.ErrCodeNotFound) {
		t.Fatalf("Expected not found for both, got %v and %v", foreign, missing)
	}
	if foreign.Error() != missing.Error() {
		t.Errorf("Expected indistinguishable errors, got %q and %q", foreign, missing)
	}
}

func TestAddMember(t *testing.T) {
	store := memory.NewStore()
	uc := New(store.Projects(), store.Users(), nil)
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	carol := seedUser(t, store, "carol")
	ctx := context.Background()

	project, err := uc.Create(ctx, alice.ID, CreateInput{Name: "Alpha"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	member, err := uc.AddMember(ctx, alice.ID, project.ID, MemberInput{Username: "bob"})
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if member.UserID != bob.ID || member.Role != domain.MemberRoleMember {
		t.Errorf("Unexpected member %+v", member)
	}
	if _, err := uc.Get(ctx, bob.ID, project.ID); err != nil {
		t.Errorf("Expected bob to see the project, got %v", err)
	}

	tests := []struct {
		name     string
		caller   string
		input    MemberInput
		wantCode domain.ErrorCode
	}{
		{"duplicate", alice.ID, MemberInput{UserID: bob.ID}, domain.ErrCodeConflict},
		{"member is not owner", bob.ID, MemberInput{UserID: carol.ID}, domain.ErrCodeForbidden},
		{"outsider", carol.ID, MemberInput{UserID: carol.ID}, domain.ErrCodeNotFound},
		{"unknown user", alice.ID, MemberInput{Username: "nobody"}, domain.ErrCodeInvalid},
		{"no target", alice.ID, MemberInput{}, domain.ErrCodeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.AddMember(ctx, tt.caller, project.ID, tt.input); !domain.IsDomainError(err, tt.wantCode) {
				t.Errorf("Expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}
