package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gomarket/internal/logger"
	"gomarket/internal/models"
	"gomarket/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Domain errors for credential flows. Duplicate errors surface as
// per-field validation messages; invalid credentials stay deliberately
// vague so the response never says which part was wrong.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles registration and password checks.
type AuthService struct {
	users  repository.Users
	events repository.Events
	log    *logger.Logger
}

func NewAuthService(users repository.Users, events repository.Events, log *logger.Logger) *AuthService {
	return &AuthService{users: users, events: events, log: log}
}

// appendEvent records an audit event best-effort; a failed append never
// fails the user-facing operation, but it is logged.
func (s *AuthService) appendEvent(ctx context.Context, e models.AuditEvent) {
	if err := s.events.Append(ctx, e); err != nil && s.log != nil {
		s.log.Warnw("audit_append_failed", "type", e.Type, "err", err)
	}
}

// Register checks uniqueness, hashes the password and persists the user.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (int64, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if existing, err := s.users.ByUsername(ctx, username); err != nil {
		return 0, err
	} else if existing != nil {
		return 0, ErrUsernameTaken
	}
	if existing, err := s.users.ByEmail(ctx, email); err != nil {
		return 0, err
	} else if existing != nil {
		return 0, ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}

	id, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		return 0, err
	}

	s.appendEvent(ctx, models.AuditEvent{
		Type:        models.EventUserRegistered,
		Description: "User " + username + " registered",
		Metadata:    map[string]any{"user_id": id},
	})
	return id, nil
}

// Authenticate looks the user up by email and verifies the password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.appendEvent(ctx, models.AuditEvent{
		Type:        models.EventUserLogin,
		Description: "User " + u.Username + " logged in",
		Metadata:    map[string]any{"user_id": u.ID},
	})
	return u, nil
}

// UserByID fetches a user. Returns (nil, nil) for unknown ids.
func (s *AuthService) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.ByID(ctx, id)
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
