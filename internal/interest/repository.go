package interest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/julienpequegnot/blogrank/internal/database"
)

const MaxInterests = 20

var (
	ErrNotFound         = errors.New("user interests not found")
	ErrInvalidInterests = errors.New("interests must contain between 1 and 20 entries")
)

// Profile is the ordered list of topics a user wants recommended.
type Profile struct {
	UserID    int64
	Interests []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Set creates or replaces the user's interests.
func (r *Repository) Set(userID int64, interests []string) (*Profile, error) {
	cleaned := clean(interests)
	if len(cleaned) == 0 || len(cleaned) > MaxInterests {
		return nil, ErrInvalidInterests
	}

	if err := r.write(userID, cleaned); err != nil {
		return nil, err
	}
	return r.Get(userID)
}

// Add appends one interest unless it is already present.
func (r *Repository) Add(userID int64, interest string) (*Profile, error) {
	p, err := r.Get(userID)
	if err != nil {
		return nil, err
	}

	interest = strings.TrimSpace(interest)
	if interest == "" || slices.Contains(p.Interests, interest) {
		return p, nil
	}
	if len(p.Interests) >= MaxInterests {
		return nil, ErrInvalidInterests
	}

	if err := r.write(userID, append(p.Interests, interest)); err != nil {
		return nil, err
	}
	return r.Get(userID)
}

func (r *Repository) Remove(userID int64, interest string) (*Profile, error) {
	p, err := r.Get(userID)
	if err != nil {
		return nil, err
	}

	interest = strings.TrimSpace(interest)
	kept := slices.DeleteFunc(slices.Clone(p.Interests), func(s string) bool { return s == interest })
	if err := r.write(userID, kept); err != nil {
		return nil, err
	}
	return r.Get(userID)
}

func (r *Repository) Delete(userID int64) error {
	result, err := r.db.Exec(`DELETE FROM user_interests WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Get(userID int64) (*Profile, error) {
	return r.get(context.Background(), userID)
}

// Interests returns the user's interests, or nil when none were declared.
func (r *Repository) Interests(ctx context.Context, userID int64) ([]string, error) {
	p, err := r.get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.Interests, nil
}

func (r *Repository) get(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	var raw string
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, interests, created_at, updated_at
		FROM user_interests WHERE user_id = ?
	`, userID).Scan(&p.UserID, &raw, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(raw), &p.Interests); err != nil {
		return nil, fmt.Errorf("failed to decode interests for user %d: %w", userID, err)
	}
	return &p, nil
}

func (r *Repository) write(userID int64, interests []string) error {
	if interests == nil {
		interests = []string{}
	}
	data, err := json.Marshal(interests)
	if err != nil {
		return fmt.Errorf("failed to encode interests: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO user_interests (user_id, interests, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			interests = excluded.interests,
			updated_at = CURRENT_TIMESTAMP
	`, userID, string(data))
	if err != nil {
		return fmt.Errorf("failed to save interests: %w", err)
	}
	return nil
}

func clean(interests []string) []string {
	var out []string
	for _, s := range interests {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
