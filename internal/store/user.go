package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mediscan/mediscan/internal/model"
)

// ErrDuplicateEmail is returned when a user insert violates the email
// uniqueness constraint.
var ErrDuplicateEmail = errors.New("email already exists")

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.PreferredLanguage, &u.ThemePreference, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, email, password_hash, first_name, last_name, role, preferred_language, theme_preference, created_at`

// Create inserts a new user with default role and theme. preferredLanguage
// falls back to "en" when empty.
func (s *UserStore) Create(email, passwordHash, firstName, lastName, preferredLanguage string) (*model.User, error) {
	if preferredLanguage == "" {
		preferredLanguage = "en"
	}
	result, err := s.db.Exec(
		`INSERT INTO users (email, password_hash, first_name, last_name, preferred_language) VALUES (?, ?, ?, ?, ?)`,
		email, passwordHash, firstName, lastName, preferredLanguage,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail returns the user with the exact email, or nil when no such user
// exists. The returned record includes the password hash; callers outside the
// auth layer must never see it.
func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}
