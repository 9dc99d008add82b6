package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redmonkez12/sentiment-api/internal/logging"
	"github.com/redmonkez12/sentiment-api/internal/user"
)

var (
	// ErrInvalidCredentials hides whether the email or the password was wrong
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
)

// UserRepository is the credential store used by the service
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*user.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Session is the result of a successful registration or login
type Session struct {
	Token string
	User  *user.User
}

// Service handles credential management and token issuance
type Service struct {
	users        UserRepository
	hasher       PasswordHasher
	tokenService TokenService
	logger       *logging.Logger

	// verified against when the email is unknown so both login failures cost the same
	dummyHash string
}

func NewService(users UserRepository, hasher PasswordHasher, tokenService TokenService, logger *logging.Logger) (*Service, error) {
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Service{
		users:        users,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
		dummyHash:    dummyHash,
	}, nil
}

// Register creates a new user account.
// Uniqueness is checked up front and enforced again by the store's unique constraints on insert.
func (s *Service) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	if isBlank(username) {
		return nil, ErrUsernameRequired
	}
	if isBlank(email) {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, user.ErrDuplicateUsername
	}

	taken, err = s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, user.ErrDuplicateEmail
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, username, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateUsername) || errors.Is(err, user.ErrDuplicateEmail) {
			// a concurrent registration won between the pre-check and the insert
			s.logger.Warn("registration rejected by unique constraint", "error", err.Error())
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// Authenticate returns the user owning email if password matches its stored hash
func (s *Service) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	if isBlank(email) {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.hasher.Verify(s.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return existingUser, nil
}

// IssueToken creates a session token for u
func (s *Service) IssueToken(u *user.User) (string, error) {
	token, err := s.tokenService.CreateToken(u.ID, u.Username)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}
	return token, nil
}

// SignUp registers a user and issues its first token
func (s *Service) SignUp(ctx context.Context, username, email, password string) (*Session, error) {
	newUser, err := s.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueToken(newUser)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, User: newUser}, nil
}

// Login authenticates by email and password and issues a token
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	existingUser, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueToken(existingUser)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, User: existingUser}, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
