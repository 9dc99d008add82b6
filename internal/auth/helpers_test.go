package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/sentiment-api/internal/logging"
	"github.com/redmonkez12/sentiment-api/internal/user"
)

// memUserRepo is an in-memory UserRepository enforcing the same uniqueness as the database
type memUserRepo struct {
	mu    sync.Mutex
	users []*user.User

	// hooks for failure injection
	createErr error
	lookupErr error
}

func (m *memUserRepo) Create(ctx context.Context, username, email, passwordHash string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, u := range m.users {
		if u.Username == username {
			return nil, user.ErrDuplicateUsername
		}
		if u.Email == email {
			return nil, user.ErrDuplicateEmail
		}
	}

	u := &user.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lookupErr != nil {
		return false, m.lookupErr
	}
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lookupErr != nil {
		return false, m.lookupErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *memUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func newTestService(t *testing.T) (*Service, *memUserRepo, TokenService) {
	t.Helper()

	hasher, err := NewPasswordHasher("bcrypt", bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := NewJWTService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	repo := &memUserRepo{}
	svc, err := NewService(repo, hasher, tokens, logging.Discard())
	require.NoError(t, err)

	return svc, repo, tokens
}
