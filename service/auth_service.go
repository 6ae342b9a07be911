package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"advocateasy-backend/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionInvalid     = errors.New("session missing or invalid")
	ErrSessionExpired     = errors.New("session expired")
)

// UserStore persists user accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore persists opaque bearer sessions
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// AuthService handles registration, login, and session validation
type AuthService struct {
	users    UserStore
	sessions SessionStore
	now      func() time.Time
}

// AuthServiceOption is a functional option for AuthService
type AuthServiceOption func(*AuthService)

// AuthWithUserStore sets the user persistence backend
func AuthWithUserStore(store UserStore) AuthServiceOption {
	return func(s *AuthService) {
		s.users = store
	}
}

// AuthWithSessionStore sets the session persistence backend
func AuthWithSessionStore(store SessionStore) AuthServiceOption {
	return func(s *AuthService) {
		s.sessions = store
	}
}

// AuthWithClock overrides the time source
func AuthWithClock(now func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		s.now = now
	}
}

// NewAuthService creates a new auth service
func NewAuthService(opts ...AuthServiceOption) *AuthService {
	s := &AuthService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, email, password, name string) error {
	if s.users == nil {
		return errors.New("user store not set")
	}
	if email == "" || password == "" {
		return ErrInvalidCredentials
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	})
}

// Login verifies credentials and issues a session token valid for a fixed
// duration from creation.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if s.users == nil || s.sessions == nil {
		return nil, errors.New("auth stores not set")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := &models.Session{
		Token:     uuid.New().String(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Validate checks an opaque token, deleting it when expired. Returns the
// associated user identity on success.
func (s *AuthService) Validate(ctx context.Context, token string) (string, error) {
	if s.sessions == nil {
		return "", errors.New("session store not set")
	}
	if token == "" {
		return "", ErrSessionInvalid
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return "", ErrSessionInvalid
	}

	if session.Expired(s.now().UTC()) {
		_ = s.sessions.Delete(ctx, token)
		return "", ErrSessionExpired
	}

	return session.Email, nil
}

// Logout deletes the session token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.sessions == nil {
		return errors.New("session store not set")
	}
	return s.sessions.Delete(ctx, token)
}
