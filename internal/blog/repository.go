// internal/blog/repository.go
package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/julienpequegnot/blogrank/internal/database"
	"github.com/rs/zerolog"
)

const maxTitleLen = 200

var (
	ErrNotFound = errors.New("blog not found")
	ErrInvalid  = errors.New("invalid blog")
)

type NewBlog struct {
	Title        string
	Content      string
	Tags         []string
	Published    bool
	MainImageURL string
	SourceURL    string
	CreatedAt    time.Time // zero means now
}

type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db, log: zerolog.Nop()}
}

// WithLogger sets the logger used to report unreadable rows.
func (r *Repository) WithLogger(l zerolog.Logger) *Repository {
	r.log = l
	return r
}

const blogColumns = `b.id, b.user_id, b.title, b.content, b.tags, COALESCE(b.main_image_url, ''),
	COALESCE(b.source_url, ''), b.published, b.comment_count, b.likes_count, b.created_at, b.updated_at`

func (r *Repository) Add(userID int64, nb NewBlog) (*Blog, error) {
	nb.Title = strings.TrimSpace(nb.Title)
	if nb.Title == "" || len(nb.Title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title must be 1-%d characters", ErrInvalid, maxTitleLen)
	}
	if strings.TrimSpace(nb.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalid)
	}

	tags := NormalizeTags(nb.Tags)
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	createdAt := nb.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	var sourceURL any
	if nb.SourceURL != "" {
		sourceURL = nb.SourceURL
	}

	result, err := r.db.Exec(`
		INSERT INTO blogs (user_id, title, content, tags, main_image_url, source_url, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, nb.Title, nb.Content, string(tagsJSON), nb.MainImageURL, sourceURL, nb.Published, createdAt, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert blog: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Blog{
		ID:           id,
		UserID:       userID,
		Title:        nb.Title,
		Content:      nb.Content,
		Tags:         tags,
		MainImageURL: nb.MainImageURL,
		SourceURL:    nb.SourceURL,
		Published:    nb.Published,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*Blog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs b WHERE b.id = ?`, id)
	b, err := r.scanBlog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// FetchBlogs returns every blog matching f in insertion order.
func (r *Repository) FetchBlogs(ctx context.Context, f Filter) ([]Blog, error) {
	var where []string
	var args []any

	if f.PublishedOnly {
		where = append(where, "b.published = 1")
	}
	if f.AuthorID > 0 {
		where = append(where, "b.user_id = ?")
		args = append(args, f.AuthorID)
	}
	if tags := NormalizeTags(f.Tags); len(tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(tags)), ", ")
		where = append(where, "EXISTS (SELECT 1 FROM json_each(CASE WHEN json_valid(b.tags) THEN b.tags ELSE '[]' END) WHERE json_each.value IN ("+placeholders+"))")
		for _, tag := range tags {
			args = append(args, tag)
		}
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := database.ContainsPattern(q)
		where = append(where, `(b.title LIKE ? ESCAPE '\' OR b.content LIKE ? ESCAPE '\' OR b.tags LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	query := `SELECT ` + blogColumns + ` FROM blogs b`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query blogs: %w", err)
	}
	defer rows.Close()

	var blogs []Blog
	for rows.Next() {
		b, err := r.scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}
	return blogs, rows.Err()
}

func (r *Repository) ExistsBySourceURL(url string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM blogs WHERE source_url = ?`, url).Scan(&count)
	return count > 0, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBlog keeps a row whose tags column cannot be decoded, with no tags,
// so one bad record does not fail a whole listing.
func (r *Repository) scanBlog(row rowScanner) (*Blog, error) {
	var b Blog
	var tags string
	if err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.Content, &tags, &b.MainImageURL, &b.SourceURL,
		&b.Published, &b.CommentCount, &b.LikesCount, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &b.Tags); err != nil {
		r.log.Warn().Err(err).Int64("blog_id", b.ID).Msg("failed to decode tags, ignoring them")
		b.Tags = nil
	}
	return &b, nil
}
