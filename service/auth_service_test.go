package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"advocateasy-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserStore struct {
	users map[string]*models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*models.User)}
}

func (s *memoryUserStore) Create(ctx context.Context, user *models.User) error {
	s.users[user.Email] = user
	return nil
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return user, nil
}

type memorySessionStore struct {
	sessions map[string]*models.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*models.Session)}
}

func (s *memorySessionStore) Create(ctx context.Context, session *models.Session) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *memorySessionStore) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return session, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func newTestAuthService(now time.Time) (*AuthService, *memorySessionStore) {
	sessions := newMemorySessionStore()
	svc := NewAuthService(
		AuthWithUserStore(newMemoryUserStore()),
		AuthWithSessionStore(sessions),
		AuthWithClock(func() time.Time { return now }),
	)
	return svc, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestAuthService(now)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "asha@example.com", "hunter2secret", "Asha"))

	session, err := svc.Login(ctx, "asha@example.com", "hunter2secret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "asha@example.com", session.Email)
	assert.Equal(t, now.Add(7*24*time.Hour), session.ExpiresAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(time.Now())
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "asha@example.com", "hunter2secret", "Asha"))
	err := svc.Register(ctx, "asha@example.com", "different", "Asha Again")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(time.Now())
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "asha@example.com", "hunter2secret", "Asha"))

	_, err := svc.Login(ctx, "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "hunter2secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateSession(t *testing.T) {
	svc, _ := newTestAuthService(time.Now())
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "asha@example.com", "hunter2secret", "Asha"))
	session, err := svc.Login(ctx, "asha@example.com", "hunter2secret")
	require.NoError(t, err)

	email, err := svc.Validate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", email)

	_, err = svc.Validate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = svc.Validate(ctx, "")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateExpiredSessionIsDeleted(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := newMemorySessionStore()
	users := newMemoryUserStore()
	svc := NewAuthService(
		AuthWithUserStore(users),
		AuthWithSessionStore(sessions),
		AuthWithClock(func() time.Time { return now }),
	)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "asha@example.com", "hunter2secret", "Asha"))
	session, err := svc.Login(ctx, "asha@example.com", "hunter2secret")
	require.NoError(t, err)

	// Jump past the expiry.
	now = now.Add(8 * 24 * time.Hour)

	_, err = svc.Validate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// The expired token is gone; a second check reports invalid, not expired.
	_, err = svc.Validate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _ := newTestAuthService(time.Now())
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "asha@example.com", "hunter2secret", "Asha"))
	session, err := svc.Login(ctx, "asha@example.com", "hunter2secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Token))

	_, err = svc.Validate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}
