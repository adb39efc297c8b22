package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julienpequegnot/blogrank/internal/database"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("user already exists")
)

type User struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Add(username, email string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	result, err := r.db.Exec(`INSERT INTO users (username, email) VALUES (?, ?)`, username, email)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("%w: %s", ErrExists, username)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &User{ID: id, Username: username, Email: email}, nil
}

// Ensure returns the named user, creating it when missing.
func (r *Repository) Ensure(username string) (*User, error) {
	u, err := r.GetByUsername(username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return r.Add(username, "")
}

func (r *Repository) GetByUsername(username string) (*User, error) {
	var u User
	var email sql.NullString
	err := r.db.QueryRow(`SELECT id, username, email, created_at FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	return &u, nil
}

// Username looks up the author name for a user ID.
func (r *Repository) Username(ctx context.Context, userID int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT username FROM users WHERE id = ?`, userID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: id %d", ErrNotFound, userID)
	}
	return name, err
}

func (r *Repository) List() ([]User, error) {
	rows, err := r.db.Query(`SELECT id, username, email, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var email sql.NullString
		if err := rows.Scan(&u.ID, &u.Username, &email, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Email = email.String
		users = append(users, u)
	}
	return users, rows.Err()
}
