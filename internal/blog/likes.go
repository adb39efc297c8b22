package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type LikeKind string

const (
	LikeAdded   LikeKind = "liked"
	LikeRemoved LikeKind = "removed"
)

type Like struct {
	ID        int64     `json:"id"`
	BlogID    int64     `json:"blog_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeResult is the outcome of ToggleLike: Data is set for LikeAdded,
// Message for LikeRemoved.
type LikeResult struct {
	Kind    LikeKind `json:"kind"`
	Data    *Like    `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
}

// ToggleLike likes the blog for the user, or removes an existing like, and
// keeps the blog's likes_count in step.
func (r *Repository) ToggleLike(ctx context.Context, blogID, userID int64) (*LikeResult, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM blogs WHERE id = ?`, blogID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, blogID)
	}

	var likeID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM likes WHERE blog_id = ? AND user_id = ?`, blogID, userID).Scan(&likeID)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE id = ?`, likeID); err != nil {
			return nil, fmt.Errorf("failed to delete like: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE blogs SET likes_count = MAX(likes_count - 1, 0) WHERE id = ?`, blogID); err != nil {
			return nil, fmt.Errorf("failed to update likes count: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return &LikeResult{Kind: LikeRemoved, Message: "Like removed successfully"}, nil

	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	like := Like{BlogID: blogID, UserID: userID, CreatedAt: time.Now().UTC()}
	result, err := tx.ExecContext(ctx, `INSERT INTO likes (blog_id, user_id, created_at) VALUES (?, ?, ?)`,
		blogID, userID, like.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert like: %w", err)
	}
	if like.ID, err = result.LastInsertId(); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE blogs SET likes_count = likes_count + 1 WHERE id = ?`, blogID); err != nil {
		return nil, fmt.Errorf("failed to update likes count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &LikeResult{Kind: LikeAdded, Data: &like}, nil
}

func (r *Repository) LikesCount(ctx context.Context, blogID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE blog_id = ?`, blogID).Scan(&count)
	return count, err
}
