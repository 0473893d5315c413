package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/saathi/saathi-go/internal/models"
	"github.com/saathi/saathi-go/internal/token"
)

var (
	// ErrMissingFields is returned when email or password is blank.
	ErrMissingFields = errors.New("please fill in all fields")
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPasswordTooShort is returned for passwords under six characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrInvalidCredentials is returned for any failed login. Wrong email
	// and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNoSession is returned when no session pointer is set.
	ErrNoSession = errors.New("no active session")
)

// UserRepository defines the persistence operations for user records.
// Lookups return (nil, nil) when no matching user exists.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// SessionRepository stores the single process-wide session pointer naming
// the currently authenticated user. Get returns an empty string when no
// session is set.
type SessionRepository interface {
	GetSession(ctx context.Context) (string, error)
	SetSession(ctx context.Context, userID string) error
	ClearSession(ctx context.Context) error
}

// AuthResult is a signed-in user plus the bearer token for the API.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService implements signup, login, logout, and session restore.
type AuthService struct {
	users     UserRepository
	sessions  SessionRepository
	subs      SubscriptionRepository
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService constructs an AuthService using the provided repositories.
func NewAuthService(
	users UserRepository,
	sessions SessionRepository,
	subs SubscriptionRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		subs:      subs,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Register creates a new account, seeds a free subscription, and sets the
// session pointer. An empty name defaults to the email's local part.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthResult{}, ErrMissingFields
	}
	if len(password) < 6 {
		return AuthResult{}, ErrPasswordTooShort
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return AuthResult{}, ErrEmailTaken
	}

	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           "u_" + uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}
	if err := s.subs.SetSubscription(ctx, user.ID, models.FreeSubscription()); err != nil {
		return AuthResult{}, fmt.Errorf("seed subscription: %w", err)
	}
	if err := s.sessions.SetSession(ctx, user.ID); err != nil {
		return AuthResult{}, fmt.Errorf("set session: %w", err)
	}

	return s.authResult(user)
}

// Login verifies the password and sets the session pointer.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthResult{}, ErrMissingFields
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := s.sessions.SetSession(ctx, user.ID); err != nil {
		return AuthResult{}, fmt.Errorf("set session: %w", err)
	}
	return s.authResult(user)
}

// Logout clears the session pointer.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.ClearSession(ctx)
}

// CurrentUser resolves the persisted session pointer to a user, or
// ErrNoSession when nobody is signed in.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	userID, err := s.sessions.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if userID == "" {
		return nil, ErrNoSession
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrNoSession
	}
	return user, nil
}

func (s *AuthService) authResult(user *models.User) (AuthResult, error) {
	tok, err := token.Generate(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}
	return AuthResult{User: user, Token: tok}, nil
}
