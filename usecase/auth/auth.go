package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/token"
	"github.com/fastygo/taskflow/repository"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72
	maxFullNameLength = 100
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Tokens issues and verifies access tokens.
type Tokens interface {
	Issue(userID string) (token.Issued, error)
	Parse(raw string) (string, error)
}

type UseCase struct {
	users    repository.UserRepository
	tokens   Tokens
	hashCost int
	logger   *zap.Logger
}

type Option func(*UseCase)

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(uc *UseCase) {
		uc.hashCost = cost
	}
}

func New(users repository.UserRepository, tokens Tokens, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		users:    users,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// LoginResult is the bearer credential handed to the client.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (in RegisterInput) validate() error {
	if !usernamePattern.MatchString(in.Username) {
		return domain.Invalidf("username must be 3-50 characters of letters, digits, '.', '_' or '-'")
	}
	if !emailPattern.MatchString(in.Email) {
		return domain.Invalidf("email address is invalid")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return domain.Invalidf("password must be at least %d characters", minPasswordLength)
	}
	if utf8.RuneCountInString(in.FullName) > maxFullNameLength {
		return domain.Invalidf("full name must be at most %d characters", maxFullNameLength)
	}
	return nil
}

func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := in.validate(); err != nil {
		return nil, err
	}

	usernameTaken, emailTaken, err := uc.users.Exists(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if usernameTaken {
		return nil, domain.ErrUsernameTaken
	}
	if emailTaken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword(truncate(in.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login verifies a username or email with its password and issues a token.
// Unknown identifiers and wrong passwords fail identically.
func (uc *UseCase) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.users.GetByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), truncate(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.CanLogin() {
		return nil, domain.ErrInvalidCredentials
	}

	issued, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	uc.logger.Debug("user logged in", zap.String("user_id", user.ID))
	return &LoginResult{
		AccessToken: issued.Value,
		TokenType:   "bearer",
		ExpiresAt:   issued.ExpiresAt,
	}, nil
}

// Authenticate resolves a bearer token to an active user.
func (uc *UseCase) Authenticate(ctx context.Context, raw string) (*domain.User, error) {
	if raw == "" {
		return nil, domain.ErrUnauthorized
	}
	userID, err := uc.tokens.Parse(raw)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, domain.ErrInvalidToken.Message, err)
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
