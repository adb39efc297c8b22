package blog

import (
	"strings"
	"time"

	"github.com/julienpequegnot/blogrank/internal/scorer"
)

type Blog struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	MainImageURL string    `json:"main_image_url,omitempty"`
	SourceURL    string    `json:"source_url,omitempty"`
	Published    bool      `json:"published"`
	CommentCount int       `json:"comment_count"`
	LikesCount   int       `json:"likes_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Document returns the fields the relevance scorer reads.
func (b *Blog) Document() scorer.Document {
	return scorer.Document{
		ID:         b.ID,
		Title:      b.Title,
		Content:    b.Content,
		Tags:       b.Tags,
		Published:  b.Published,
		CreatedAt:  b.CreatedAt,
		LikesCount: b.LikesCount,
	}
}

// Filter selects the blogs handed to the ranker.
type Filter struct {
	PublishedOnly bool
	Tags          []string // any of these tags
	Query         string   // case-insensitive substring of title, content or tags
	AuthorID      int64
	Limit         int // 0 means no limit
}

// NormalizeTags trims, lowercases and de-duplicates tags, keeping order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// ParseTags splits a comma separated tag list.
func ParseTags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return NormalizeTags(strings.Split(csv, ","))
}
