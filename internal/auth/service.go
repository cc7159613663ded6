package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mediscan/mediscan/internal/model"
	"github.com/mediscan/mediscan/internal/store"
)

// Service composes the credential and session stores into the operations the
// request handlers consume. It is the only writer of those two tables.
type Service struct {
	users    *store.UserStore
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewService(users *store.UserStore, sessions *store.SessionStore, logger *slog.Logger) *Service {
	return &Service{users: users, sessions: sessions, logger: logger}
}

// RegisterInput holds the registration form fields.
type RegisterInput struct {
	Email             string
	Password          string
	FirstName         string
	LastName          string
	PreferredLanguage string
}

// Register creates the user and an initial session. Returns ErrMissingFields
// when a required field is empty and ErrEmailTaken on a duplicate email.
func (s *Service) Register(in RegisterInput) (*model.User, string, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, "", ErrMissingFields
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(in.Email, hash, in.FirstName, in.LastName, in.PreferredLanguage)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	sess, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	return sanitize(user), sess.Token, nil
}

// Login verifies the credentials and opens a new session. An unknown email and
// a wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(email, password string) (*model.User, string, error) {
	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, "", fmt.Errorf("look up user: %w", err)
	}
	if user == nil || !VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	return sanitize(user), sess.Token, nil
}

// Logout revokes the session token. Revoking an unknown token is a no-op.
func (s *Service) Logout(token string) error {
	return s.sessions.DeleteByToken(token)
}

// CurrentUser resolves a session token to its user. Unknown and expired
// tokens both return (nil, nil).
func (s *Service) CurrentUser(token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}
	user, err := s.sessions.GetUserByToken(token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return sanitize(user), nil
}

// RequireAuth is CurrentUser with a hard failure instead of a nil user.
func (s *Service) RequireAuth(token string) (*model.User, error) {
	user, err := s.CurrentUser(token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// sanitize strips the password hash before a user record leaves the auth layer.
func sanitize(u *model.User) *model.User {
	clean := *u
	clean.PasswordHash = ""
	return &clean
}
