package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/token"
	"github.com/fastygo/taskflow/repository/memory"
)

const testSecret = "test-secret-32-bytes-long-1234567890"

func newTestUseCase(t *testing.T, opts ...token.Option) (*UseCase, *memory.Store) {
	t.Helper()
	issuer, err := token.NewIssuer(testSecret, "taskflow-test", time.Minute, opts...)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	store := memory.NewStore()
	return New(store.Users(), issuer, nil, WithHashCost(bcrypt.MinCost)), store
}

func register(t *testing.T, uc *UseCase, username, email, password string) *domain.User {
	t.Helper()
	user, err := uc.Register(context.Background(), RegisterInput{Username: username, Email: email, Password: password})
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return user
}

func TestRegister(t *testing.T) {
	uc, _ := newTestUseCase(t)
	register(t, uc, "alice", "alice@example.com", "secret1")

	tests := []struct {
		name     string
		input    RegisterInput
		wantCode domain.ErrorCode
	}{
		{"ok", RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1", FullName: "Bob"}, ""},
		{"duplicate username", RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"}, domain.ErrCodeConflict},
		{"duplicate email", RegisterInput{Username: "alice2", Email: "ALICE@example.com", Password: "secret1"}, domain.ErrCodeConflict},
		{"short username", RegisterInput{Username: "al", Email: "al@example.com", Password: "secret1"}, domain.ErrCodeInvalid},
		{"bad email", RegisterInput{Username: "carol", Email: "carol-at-example", Password: "secret1"}, domain.ErrCodeInvalid},
		{"short password", RegisterInput{Username: "dave", Email: "dave@example.com", Password: "12345"}, domain.ErrCodeInvalid},
		{"cyrillic full name", RegisterInput{Username: "ivan", Email: "ivan@example.com", Password: "secret1", FullName: strings.Repeat("Ж", 90)}, ""},
		{"long full name", RegisterInput{Username: "erin", Email: "erin@example.com", Password: "secret1", FullName: strings.Repeat("Ж", 101)}, domain.ErrCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := uc.Register(context.Background(), tt.input)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if user.ID == "" || !user.IsActive {
					t.Errorf("Expected an active user with an id, got %+v", user)
				}
				if user.PasswordHash == tt.input.Password {
					t.Error("Expected the password to be hashed")
				}
				return
			}
			if !domain.IsDomainError(err, tt.wantCode) {
				t.Errorf("Expected %s error, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	uc, _ := newTestUseCase(t)
	user := register(t, uc, "alice", "alice@example.com", "secret1")

	for _, identifier := range []string{"alice", "alice@example.com"} {
		result, err := uc.Login(context.Background(), identifier, "secret1")
		if err != nil {
			t.Fatalf("Login(%s): %v", identifier, err)
		}
		if result.TokenType != "bearer" || result.AccessToken == "" {
			t.Errorf("Unexpected login result %+v", result)
		}
		authed, err := uc.Authenticate(context.Background(), result.AccessToken)
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if authed.ID != user.ID {
			t.Errorf("Expected user %s, got %s", user.ID, authed.ID)
		}
	}

	_, wrongPassword := uc.Login(context.Background(), "alice", "wrong-password")
	_, unknownUser := uc.Login(context.Background(), "nobody", "secret1")
	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) || !errors.Is(unknownUser, domain.ErrInvalidCredentials) {
		t.Fatalf("Expected invalid credentials for both, got %v and %v", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Errorf("Expected identical messages, got %q and %q", wrongPassword, unknownUser)
	}
}

func TestLoginLongPasswordIsTruncated(t *testing.T) {
	uc, _ := newTestUseCase(t)
	long := strings.Repeat("p", 80)
	register(t, uc, "alice", "alice@example.com", long)

	if _, err := uc.Login(context.Background(), "alice", long); err != nil {
		t.Fatalf("Expected login with a long password to succeed, got %v", err)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	uc, _ := newTestUseCase(t, token.WithClock(func() time.Time { return clock() }))
	register(t, uc, "alice", "alice@example.com", "secret1")

	result, err := uc.Login(context.Background(), "alice", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other, _ := token.NewIssuer(testSecret, "taskflow-test", time.Minute)
	ghost, _ := other.Issue("00000000-0000-0000-0000-000000000000")

	tests := []struct {
		name  string
		token string
		shift time.Duration
	}{
		{"empty", "", 0},
		{"garbage", "not-a-token", 0},
		{"tampered", result.AccessToken + "x", 0},
		{"unknown user", ghost.Value, 0},
		{"expired", result.AccessToken, 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock = func() time.Time { return now.Add(tt.shift) }
			_, err := uc.Authenticate(context.Background(), tt.token)
			if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
				t.Errorf("Expected unauthorized, got %v", err)
			}
		})
	}
}

func TestAttemptLimiter(t *testing.T) {
	now := time.Now()
	counter := memory.NewAttemptCounter().WithClock(func() time.Time { return now })
	limiter := NewAttemptLimiter(counter, 3, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.Allow(ctx, "login", "10.0.0.1"); err != nil {
			t.Fatalf("Attempt %d: unexpected error %v", i+1, err)
		}
	}
	if err := limiter.Allow(ctx, "login", "10.0.0.1"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Errorf("Expected too many attempts, got %v", err)
	}
	if err := limiter.Allow(ctx, "login", "10.0.0.2"); err != nil {
		t.Errorf("Expected other clients to be unaffected, got %v", err)
	}
	if err := limiter.Allow(ctx, "register", "10.0.0.1"); err != nil {
		t.Errorf("Expected other scopes to be unaffected, got %v", err)
	}

	now = now.Add(time.Minute)
	if err := limiter.Allow(ctx, "login", "10.0.0.1"); err != nil {
		t.Errorf("Expected the window to reset, got %v", err)
	}
}

func TestAttemptLimiterDisabled(t *testing.T) {
	limiter := NewAttemptLimiter(memory.NewAttemptCounter(), 0, time.Minute, nil)
	for i := 0; i < 10; i++ {
		if err := limiter.Allow(context.Background(), "login", "ip"); err != nil {
			t.Fatalf("Expected no limit, got %v", err)
		}
	}
}
