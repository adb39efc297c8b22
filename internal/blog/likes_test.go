package blog

import (
	"context"
	"errors"
	"testing"

	"github.com/julienpequegnot/blogrank/internal/user"
)

func TestToggleLike(t *testing.T) {
	db, author := setupTestDB(t)
	defer db.Close()

	reader, err := user.NewRepository(db).Add("reader", "")
	if err != nil {
		t.Fatalf("failed to add reader: %v", err)
	}

	repo := NewRepository(db)
	b, _ := repo.Add(author.ID, NewBlog{Title: "Liked", Content: "text"})
	ctx := context.Background()

	first, err := repo.ToggleLike(ctx, b.ID, reader.ID)
	if err != nil {
		t.Fatalf("failed to like: %v", err)
	}
	if first.Kind != LikeAdded || first.Data == nil || first.Data.ID == 0 {
		t.Errorf("expected added like with data, got %+v", first)
	}

	got, _ := repo.Get(ctx, b.ID)
	if got.LikesCount != 1 {
		t.Errorf("expected likes_count 1, got %d", got.LikesCount)
	}

	second, err := repo.ToggleLike(ctx, b.ID, reader.ID)
	if err != nil {
		t.Fatalf("failed to unlike: %v", err)
	}
	if second.Kind != LikeRemoved || second.Data != nil || second.Message == "" {
		t.Errorf("expected removed like with message, got %+v", second)
	}

	got, _ = repo.Get(ctx, b.ID)
	if got.LikesCount != 0 {
		t.Errorf("expected likes_count 0, got %d", got.LikesCount)
	}

	count, err := repo.LikesCount(ctx, b.ID)
	if err != nil || count != 0 {
		t.Errorf("expected 0 likes rows, got %d (%v)", count, err)
	}
}

func TestToggleLikeMissingBlog(t *testing.T) {
	db, author := setupTestDB(t)
	defer db.Close()

	_, err := NewRepository(db).ToggleLike(context.Background(), 999, author.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
